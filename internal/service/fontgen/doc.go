// Package fontgen regenerates the embedded CJK font of the firmware.
//
// It reads the charset file, remaps its non-ASCII characters into the single
// byte range above 0x80, downloads the unifont BDF database, runs bdfconv and
// rewrites the font source and header under src/graphics/fonts.
package fontgen
