// Package extract pulls raw text and claim metadata out of uploaded
// insurance documents. Extraction is best-effort pattern matching over
// the decoded text: fields whose labels are not found stay nil.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// LossType is the normalized category of a claim's incident type.
type LossType string

const (
	LossWater     LossType = "water"
	LossFire      LossType = "fire"
	LossTheft     LossType = "theft"
	LossAuto      LossType = "auto"
	LossLiability LossType = "liability"
	LossOther     LossType = "other"
	LossUnknown   LossType = ""
)

// Field records a single extracted value with the pattern's confidence.
type Field struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ClaimRecord holds the raw document text plus every field the patterns
// recognized. All labeled fields are optional; a document that decodes but
// matches nothing yields a record with only Text set.
type ClaimRecord struct {
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	Text        string    `json:"text"`
	ExtractedAt time.Time `json:"extracted_at"`

	ClaimNumber     *string `json:"claim_number"`
	PolicyNumber    *string `json:"policy_number"`
	DateOfLoss      *string `json:"date_of_loss"`
	ClaimantName    *string `json:"claimant_name"`
	IncidentType    *string `json:"incident_type"`
	PropertyAddress *string `json:"property_address"`
	Deductible      *string `json:"deductible"`
	Description     *string `json:"description"`

	LossType LossType `json:"loss_type"`
	Fields   []Field  `json:"fields,omitempty"`
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
}

// LossDate parses the extracted date-of-loss string. The raw string is kept
// on the record; parsing happens on demand so odd formats never block extraction.
func (r *ClaimRecord) LossDate() (time.Time, bool) {
	if r.DateOfLoss == nil {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *r.DateOfLoss); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type fieldPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

// Labeled-field patterns. Order matters only for the Fields trace; each
// pattern fills exactly one record field.
var fieldPatterns = []fieldPattern{
	{"claim_number", regexp.MustCompile(`(?i)Claim Number:\s*([A-Z0-9\-]+)`), 0.95},
	{"policy_number", regexp.MustCompile(`(?i)Policy Number:\s*([A-Z0-9\-]+)`), 0.95},
	{"date_of_loss", regexp.MustCompile(`(?i)Date of (?:Loss|Incident):\s*([0-9\-/]+)`), 0.95},
	{"claimant_name", regexp.MustCompile(`(?i)(?:Policyholder|Reported By):\s*([A-Za-z\s\.]+?)(?:\s*\(|$)`), 0.95},
	{"incident_type", regexp.MustCompile(`(?i)Type of (?:Loss|Claim):\s*([A-Za-z \-–]+?)(?:\s+Description|\s+[A-Za-z]+:|$)`), 0.95},
	{"property_address", regexp.MustCompile(`(?i)Property Address:\s*([0-9][^P]+?)Policy`), 0.95},
	{"deductible", regexp.MustCompile(`(?i)Deductible:\s*\$?([0-9,]+)`), 0.95},
	{"description", regexp.MustCompile(`(?i)Description of (?:Loss|Incident):\s*([^.]+\.)`), 0.95},
}

// Fallback patterns for documents that label fields differently
// (e.g. PDF forms with a bare "Name:" line or auto claims).
var (
	nameFallbackRe = regexp.MustCompile(`(?i)Name:\s*([A-Za-z\s\.]+?)(?:\s*Address|\s*Phone|\s*Email|$)`)
	autoIncidentRe = regexp.MustCompile(`(?i)Auto Insurance\s*[–-]\s*([A-Za-z]+)`)
	pdfAddressRe   = regexp.MustCompile(`(?i)Address:\s*([0-9][^,]+(?:,[^,]+){1,3})\s+Phone`)
	bulletRe       = regexp.MustCompile(`[•·]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Extractor decodes claim documents and scans them for labeled fields.
type Extractor struct {
	registry *Registry
}

func New() *Extractor {
	return &Extractor{registry: NewRegistry()}
}

// Extract decodes the file at path and scans it for claim fields. The format
// is taken from the file extension. Unknown extensions fail with
// ErrUnsupportedFormat; undecodable files fail with ErrDecode. A document
// that decodes to unrecognizable text is not an error.
func (e *Extractor) Extract(ctx context.Context, path string) (*ClaimRecord, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	parser, err := e.registry.Get(format)
	if err != nil {
		return nil, err
	}

	raw, err := parser.Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	rec := &ClaimRecord{
		Filename:    filepath.Base(path),
		Format:      format,
		Text:        raw,
		ExtractedAt: time.Now(),
	}

	cleaned := preprocess(raw)
	e.applyPatterns(cleaned, rec)
	e.applyFallbacks(cleaned, rec)
	rec.LossType = classifyLossType(rec.IncidentType)

	return rec, nil
}

// ExtractBytes writes the uploaded content to a temp file and extracts it.
// name only supplies the extension and the record's filename.
func (e *Extractor) ExtractBytes(ctx context.Context, name string, data []byte) (*ClaimRecord, error) {
	safe := filepath.Base(name)

	tmp, err := os.CreateTemp("", "claimsight-*"+filepath.Ext(safe))
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	rec, err := e.Extract(ctx, tmpPath)
	if err != nil {
		return nil, err
	}
	rec.Filename = safe
	return rec, nil
}

func (e *Extractor) applyPatterns(text string, rec *ClaimRecord) {
	for _, fp := range fieldPatterns {
		m := fp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		rec.setField(fp.name, value)
		rec.Fields = append(rec.Fields, Field{Name: fp.name, Value: value, Confidence: fp.confidence})
	}
}

// applyFallbacks covers layouts where the primary labels are absent:
// a bare "Name:" line, auto-policy incident headers, and PDF-style
// address blocks that run into the phone number.
func (e *Extractor) applyFallbacks(text string, rec *ClaimRecord) {
	if rec.ClaimantName == nil {
		if m := nameFallbackRe.FindStringSubmatch(text); m != nil {
			value := strings.TrimSpace(m[1])
			if value != "" {
				rec.setField("claimant_name", value)
				rec.Fields = append(rec.Fields, Field{Name: "claimant_name", Value: value, Confidence: 0.90})
			}
		}
	}

	if rec.IncidentType == nil {
		if m := autoIncidentRe.FindStringSubmatch(text); m != nil {
			value := "Auto Insurance - " + strings.TrimSpace(m[1])
			rec.setField("incident_type", value)
			rec.Fields = append(rec.Fields, Field{Name: "incident_type", Value: value, Confidence: 0.90})
		}
	}

	if rec.PropertyAddress == nil {
		if m := pdfAddressRe.FindStringSubmatch(text); m != nil {
			value := strings.TrimSpace(m[1])
			rec.setField("property_address", value)
			rec.Fields = append(rec.Fields, Field{Name: "property_address", Value: value, Confidence: 0.85})
		}
	}
}

func (r *ClaimRecord) setField(name, value string) {
	v := value
	switch name {
	case "claim_number":
		r.ClaimNumber = &v
	case "policy_number":
		r.PolicyNumber = &v
	case "date_of_loss":
		r.DateOfLoss = &v
	case "claimant_name":
		r.ClaimantName = &v
	case "incident_type":
		r.IncidentType = &v
	case "property_address":
		r.PropertyAddress = &v
	case "deductible":
		r.Deductible = &v
	case "description":
		r.Description = &v
	}
}

// preprocess strips bullets and collapses whitespace so labels and values
// end up on a single line regardless of the source layout.
func preprocess(text string) string {
	text = bulletRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func classifyLossType(incidentType *string) LossType {
	if incidentType == nil {
		return LossUnknown
	}
	lower := strings.ToLower(*incidentType)
	switch {
	case strings.Contains(lower, "water") || strings.Contains(lower, "flood"):
		return LossWater
	case strings.Contains(lower, "fire") || strings.Contains(lower, "smoke"):
		return LossFire
	case strings.Contains(lower, "theft") || strings.Contains(lower, "burglary"):
		return LossTheft
	case strings.Contains(lower, "auto") || strings.Contains(lower, "collision") || strings.Contains(lower, "vehicle"):
		return LossAuto
	case strings.Contains(lower, "liability") || strings.Contains(lower, "injury"):
		return LossLiability
	default:
		return LossOther
	}
}
