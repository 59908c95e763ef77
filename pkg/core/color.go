package core

// RGB is a display-ready pixel with 8-bit channels
type RGB struct {
	R, G, B uint8
}
