package ocr

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Party is one side of a decoded transfer.
type Party struct {
	Bank    string `json:"bank"`
	Account string `json:"account"`
	Name    string `json:"name"`
	NameEN  string `json:"name_en"`
}

// DecodedSlip is the structured result of slip verification.
type DecodedSlip struct {
	TransRef string          `json:"transRef"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Sender   Party           `json:"sender"`
	Receiver Party           `json:"receiver"`
}

var ErrUnreadableSlip = errors.New("slip could not be decoded")

// Validate rejects decodes that lack the fields the pipeline depends on.
// OCR responses are untrusted; nothing past this point re-checks presence.
func (s *DecodedSlip) Validate() error {
	if strings.TrimSpace(s.TransRef) == "" {
		return errors.New("missing transfer reference")
	}
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("missing or non-positive amount")
	}
	return nil
}

type SlipDecoder interface {
	Decode(ctx context.Context, image []byte) (*DecodedSlip, error)
}

var decoders = map[string]SlipDecoder{}

func Register(name string, d SlipDecoder) {
	decoders[strings.ToLower(name)] = d
}

func Get(name string) SlipDecoder {
	return decoders[strings.ToLower(name)]
}
