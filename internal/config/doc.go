// Package config manages user-level settings stored at ~/.dmchat/config.yaml.
// Values are layered: defaults, then the config file, then DMCHAT_* environment
// variables (a .env file in the working directory is loaded into the
// environment first). It covers the chat backend and Datamonkey API endpoints,
// the external capability registry location, HTTP timeout and logging.
package config
