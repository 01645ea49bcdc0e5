// Package desktop hosts one simulated desktop per session: the lock
// screen, the start menu, the taskbar, a window manager and a file
// navigator. Every operation runs under the session's lock and produces a
// full Snapshot for the renderer.
package desktop
