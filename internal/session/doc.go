// Package session tracks the chat backend's sessions and which one is
// active. The active id is persisted through a PreferenceStore so a restart
// resumes the same conversation.
package session
