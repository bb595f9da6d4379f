package core

// Color is the foreground of a screen cell. The viewer maps each value to an
// ANSI 256-color style.
type Color uint8

// Scene palette. The ASCII projection gives every category its own color.
const (
	ColorDefault Color = iota
	ColorGreen         // target
	ColorYellow        // carried resource
	ColorMagenta       // mothership
	ColorCyan          // rescuer
	ColorWhite         // overlay frame
	ColorOrange        // asteroid
	ColorGray          // wall
)
