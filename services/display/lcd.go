// services/display/lcd.go
package display

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// LCD adapts the HD44780-over-I2C driver to Screen.
type LCD struct {
	dev hd44780i2c.Device
}

// NewLCD configures a 16x2 panel behind a PCF8574 backpack at addr
// (commonly 0x27).
func NewLCD(i2c drivers.I2C, addr uint8) (*LCD, error) {
	dev := hd44780i2c.New(i2c, addr)
	if err := dev.Configure(hd44780i2c.Config{
		Width:  Columns,
		Height: Rows,
	}); err != nil {
		return nil, err
	}
	return &LCD{dev: dev}, nil
}

// The driver reports nothing back from these; errors only surface at
// Configure time.
func (l *LCD) ClearDisplay() error {
	l.dev.ClearDisplay()
	return nil
}

func (l *LCD) SetCursor(col, row uint8) error {
	l.dev.SetCursor(col, row)
	return nil
}

func (l *LCD) Print(data []byte) error {
	l.dev.Print(data)
	return nil
}
