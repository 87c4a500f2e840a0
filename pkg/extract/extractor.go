package extract

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"loan-assist-be/internal/constant"
)

// ErrNoMatch means the text did not yield a valid value for the field
// the stage expects. The caller loops the same stage; this is the
// normal retry path, not a defect.
var ErrNoMatch = errors.New("text does not contain the expected field")

// Field is one validated applicant fact.
type Field struct {
	Key string
	Str string  // name, pan
	Num float64 // income, emi, amount
	Int int     // tenure
}

// Extractor turns free text into the fact the given stage expects.
// Implementations may be remote (an NLU service); errors other than
// ErrNoMatch are treated as transient by the caller.
type Extractor interface {
	Extract(ctx context.Context, stage string, text string) (*Field, error)
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)
	panPattern  = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	// Lead-in phrases that introduce a name inside a longer sentence.
	nameLeadIn = regexp.MustCompile(`(?i)(?:my name is|name is|i am|i'm|this is)\s+([a-zA-Z]+(?: [a-zA-Z]+)+)`)

	// Words that end a name sequence captured after a lead-in.
	nameStopWords = map[string]struct{}{
		"and": {}, "i": {}, "im": {}, "need": {}, "want": {}, "please": {},
		"looking": {}, "for": {}, "a": {}, "the": {}, "loan": {}, "here": {},
	}

	// Casual greetings that pass the name pattern but are not names.
	greetings = map[string]struct{}{
		"hi": {}, "hello": {}, "hey": {}, "yo": {}, "bro": {}, "hii": {}, "hai": {},
	}
)

// RuleExtractor implements the production extraction rules locally.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

func (e *RuleExtractor) Extract(ctx context.Context, stage string, text string) (*Field, error) {
	text = strings.TrimSpace(text)

	switch stage {
	case constant.StageAskName:
		return extractName(text)
	case constant.StageAskPan:
		return extractPan(text)
	case constant.StageAskIncome:
		return extractNumber(constant.FactIncome, text)
	case constant.StageAskEmi:
		return extractEmi(text)
	case constant.StageAskAmount:
		return extractNumber(constant.FactAmount, text)
	case constant.StageAskTenure:
		return extractTenure(text)
	default:
		return nil, ErrNoMatch
	}
}

func extractName(text string) (*Field, error) {
	if _, isGreeting := greetings[strings.ToLower(text)]; isGreeting {
		return nil, ErrNoMatch
	}
	if m := nameLeadIn.FindStringSubmatch(text); m != nil {
		var name []string
		for _, w := range strings.Fields(m[1]) {
			if _, stop := nameStopWords[strings.ToLower(w)]; stop {
				break
			}
			name = append(name, w)
		}
		if len(name) >= 2 {
			return &Field{Key: constant.FactName, Str: strings.Join(name, " ")}, nil
		}
		return nil, ErrNoMatch
	}
	if !namePattern.MatchString(text) {
		return nil, ErrNoMatch
	}
	if len(strings.Fields(text)) < 2 {
		return nil, ErrNoMatch
	}
	return &Field{Key: constant.FactName, Str: text}, nil
}

func extractPan(text string) (*Field, error) {
	pan := strings.ToUpper(strings.ReplaceAll(text, " ", ""))
	if !panPattern.MatchString(pan) {
		return nil, ErrNoMatch
	}
	return &Field{Key: constant.FactPan, Str: pan}, nil
}

func extractNumber(key, text string) (*Field, error) {
	n, ok := parseAmount(text)
	if !ok {
		return nil, ErrNoMatch
	}
	return &Field{Key: key, Num: n}, nil
}

func extractEmi(text string) (*Field, error) {
	if strings.EqualFold(text, "none") {
		return &Field{Key: constant.FactEmi, Num: 0}, nil
	}
	n, ok := parseAmount(text)
	if !ok {
		return nil, ErrNoMatch
	}
	return &Field{Key: constant.FactEmi, Num: n}, nil
}

func extractTenure(text string) (*Field, error) {
	if !isDigits(text) {
		return nil, ErrNoMatch
	}
	months, err := strconv.Atoi(text)
	if err != nil {
		return nil, ErrNoMatch
	}
	return &Field{Key: constant.FactTenure, Int: months}, nil
}

// parseAmount accepts plain digit strings, tolerating thousands commas
// ("50,000").
func parseAmount(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, ",", "")
	if !isDigits(cleaned) {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
