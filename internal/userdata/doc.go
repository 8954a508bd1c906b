// Package userdata manages the ~/.dmchat/userdata/ directory: path
// resolution, initialization, and preferences.yaml, which also holds the
// persisted active session pointer.
package userdata
