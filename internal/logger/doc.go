// Package logger provides the structured logger shared by the client
// components. Every entry carries the emitting module and a details map.
package logger
