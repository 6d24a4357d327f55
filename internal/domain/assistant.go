package domain

import "time"

// Tool names understood by the assistant
const (
	ToolShortlist = "shortlist"
	ToolBundle    = "bundle"
	ToolNegotiate = "negotiate"
	ToolSummarize = "summarize"
)

// ToolKind tags which variant of ToolResult is populated
type ToolKind string

const (
	KindShortlist   ToolKind = "shortlist"
	KindBundle      ToolKind = "bundle"
	KindNegotiation ToolKind = "negotiation"
	KindSummary     ToolKind = "summary"
	KindMessage     ToolKind = "message"
)

// ToolResult is the output of one assistant tool call.
// Trace holds the diagnostic lines describing the simulated calls.
type ToolResult struct {
	Tool        string             `json:"tool"`
	Kind        ToolKind           `json:"kind"`
	Message     string             `json:"message"`
	Trace       []string           `json:"trace"`
	Shortlist   *ShortlistResult   `json:"shortlist,omitempty"`
	Bundle      *BundleResult      `json:"bundle,omitempty"`
	Negotiation *NegotiationScript `json:"negotiation,omitempty"`
	Summary     *Summary           `json:"summary,omitempty"`
}

// ShortlistResult holds the ranked picks for a free-text request
type ShortlistResult struct {
	Constraints ConstraintSet `json:"constraints"`
	Products    []Product     `json:"products"`
	Lines       []string      `json:"lines"`
	Rationale   string        `json:"rationale"`
	NoMatch     bool          `json:"no_match"`
}

// BundleResult is a cross-sell suggestion
type BundleResult struct {
	Group    string    `json:"group"`
	Products []Product `json:"products"`
	Tip      string    `json:"tip"`
}

// NegotiationScript is a templated message for a seller
type NegotiationScript struct {
	Focus string   `json:"focus"`
	Lines []string `json:"lines"`
}

// Summary renders the current decision state
type Summary struct {
	CartItems []string `json:"cart_items"`
	Compare   []string `json:"compare"`
	Total     float64  `json:"total"`
	Lines     []string `json:"lines"`
}

// ExportItem is one line of the exported cart
type ExportItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ExportDocument is the one-way cart export artifact
type ExportDocument struct {
	GeneratedAt string       `json:"generated_at"`
	Currency    string       `json:"currency"`
	ItemCount   int          `json:"item_count"`
	Total       float64      `json:"total"`
	Items       []ExportItem `json:"items"`
	Note        string       `json:"note"`
}

// Clock abstracts time for export timestamps
type Clock func() time.Time
