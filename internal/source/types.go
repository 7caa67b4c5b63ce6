package source

import "github.com/theirongolddev/advisor/internal/model"

// Column names recognised in an import header.
const (
	ColDate             = "date"
	ColType             = "type"
	ColAmount           = "amount"
	ColCategory         = "category"
	ColDescription      = "description"
	ColMerchant         = "merchant"
	ColPaymentMethod    = "payment_method"
	ColEmotionalTrigger = "emotional_trigger"
)

// Header is the column order written by the export template.
var Header = []string{
	ColDate, ColType, ColAmount, ColCategory, ColDescription,
	ColMerchant, ColPaymentMethod, ColEmotionalTrigger,
}

// required columns must be present in every header.
var required = []string{ColDate, ColType, ColAmount}

// LineError records why a row was skipped.
type LineError struct {
	Line int
	Msg  string
}

// ParseResult holds the output of parsing one import file.
type ParseResult struct {
	Path        string
	Inputs      []model.TransactionInput
	ParseErrors int
	Errors      []LineError // first maxLineErrors only
	Err         error
}

// DiscoveredFile is an importable file found by ScanDir.
type DiscoveredFile struct {
	Path string
	Name string
}
