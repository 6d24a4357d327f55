package domain

// Command is a user action consumed by the session controller
type Command interface {
	commandName() string
}

// AddToCart adjusts a cart quantity by Delta
type AddToCart struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

// RemoveFromCart drops a product from the cart
type RemoveFromCart struct {
	ID string `json:"id"`
}

// ToggleCompare flips compare membership
type ToggleCompare struct {
	ID string `json:"id"`
}

// ClearCompare empties the compare set
type ClearCompare struct{}

// Checkout creates a mock checkout
type Checkout struct{}

// AskAbout points the assistant at a catalog product
type AskAbout struct {
	ID string `json:"id"`
}

// SendChat submits free text to the assistant
type SendChat struct {
	Text string `json:"text"`
}

// ResetSession empties cart, compare and chat context and forgets stored state
type ResetSession struct{}

// RunTool invokes a named assistant tool
type RunTool struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

func (AddToCart) commandName() string      { return "add_to_cart" }
func (RemoveFromCart) commandName() string { return "remove_from_cart" }
func (ToggleCompare) commandName() string  { return "toggle_compare" }
func (ClearCompare) commandName() string   { return "clear_compare" }
func (Checkout) commandName() string       { return "checkout" }
func (AskAbout) commandName() string       { return "ask_about" }
func (SendChat) commandName() string       { return "send_chat" }
func (RunTool) commandName() string        { return "run_tool" }
func (ResetSession) commandName() string   { return "reset_session" }

// CommandName returns the stable name of a command for logging
func CommandName(c Command) string {
	if c == nil {
		return ""
	}
	return c.commandName()
}

// CommandResult is what the controller reports back after a command
type CommandResult struct {
	Notice   string          `json:"notice,omitempty"`
	Tool     *ToolResult     `json:"tool,omitempty"`
	Snapshot SessionSnapshot `json:"snapshot"`
}
