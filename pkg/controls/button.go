package controls

// ButtonControl is a labelled button that runs OnClick when pressed
type ButtonControl struct {
	base
	Label   string
	OnClick func()
}

// NewButtonControl creates a button
func NewButtonControl(label string, onClick func()) *ButtonControl {
	return &ButtonControl{base: newBase(), Label: label, OnClick: onClick}
}

// Kind returns KindButton
func (c *ButtonControl) Kind() Kind { return KindButton }

// Click runs the button's action, if any
func (c *ButtonControl) Click() {
	if c.OnClick != nil {
		c.OnClick()
	}
}
