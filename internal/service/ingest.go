package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ibtsamraza/psychometric-analysis/internal/classifier"
	"github.com/ibtsamraza/psychometric-analysis/internal/model"
)

// ErrBadUpload means an uploaded CSV could not be parsed into score or
// item data.
var ErrBadUpload = errors.New("malformed upload")

// nameScorePattern matches cells like "SELF-CONTROL (80)"
var nameScorePattern = regexp.MustCompile(`^(.+?)\s*\(([\d.]+)\)\s*$`)

// Item group keys renamed the same way the classifier renames subdomains
var itemGroupRenames = map[string]string{
	"SELF-CONTROL":    "EMOTIONAL COMPOSURE",
	"SELF-REGULATION": "EMOTIONAL MANAGEMENT",
}

// extractNameScore splits "NAME (score)" cells; cells without a
// parenthesized score come back with ok=false.
func extractNameScore(cell string) (name string, score float64, ok bool) {
	m := nameScorePattern.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return strings.TrimSpace(cell), 0, false
	}
	score, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return m[1], 0, false
	}
	return strings.TrimSpace(m[1]), score, true
}

// ParseScoresCSV reads a score sheet with a header row and columns
// "domain,subdomain". Both cells carry "NAME (score)"; an empty domain
// cell continues the previous domain, mirroring the merged cells of the
// original spreadsheets.
func ParseScoresCSV(r io.Reader) ([]model.Domain, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadUpload, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: score sheet has no data rows", ErrBadUpload)
	}

	var domains []model.Domain
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: score row %d has %d columns", ErrBadUpload, i+2, len(row))
		}

		domainCell := strings.TrimSpace(row[0])
		if domainCell != "" {
			name, score, _ := extractNameScore(domainCell)
			domains = append(domains, model.Domain{Name: name, Score: score})
		}
		if len(domains) == 0 {
			return nil, fmt.Errorf("%w: score row %d has no domain", ErrBadUpload, i+2)
		}

		subName, subScore, ok := extractNameScore(row[1])
		if !ok || subName == "" {
			return nil, fmt.Errorf("%w: score row %d has no subdomain score", ErrBadUpload, i+2)
		}

		last := &domains[len(domains)-1]
		last.Subdomains = append(last.Subdomains, model.ScoreNode{Name: subName, Score: subScore})
	}

	return domains, nil
}

// ParseItemsCSV reads a response sheet with a header row and columns
// "item,subdomain,selected_option". The item column is the 1-based row of
// the item catalog, an explicit key join rather than positional zipping.
// It returns the grouped responses and the flat option sequence used for
// response-bias detection.
func ParseItemsCSV(r io.Reader) (model.ItemGroups, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadUpload, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%w: item sheet has no data rows", ErrBadUpload)
	}

	groups := make(model.ItemGroups)
	var responses []string

	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, nil, fmt.Errorf("%w: item row %d has %d columns", ErrBadUpload, i+2, len(row))
		}

		key, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: item row %d has non-numeric item key %q", ErrBadUpload, i+2, row[0])
		}
		itemText := classifier.ItemText(key)
		if itemText == "" {
			return nil, nil, fmt.Errorf("%w: item row %d references unknown item %d", ErrBadUpload, i+2, key)
		}

		subdomain := strings.TrimSpace(row[1])
		if renamed, ok := itemGroupRenames[strings.ToUpper(subdomain)]; ok {
			subdomain = renamed
		}
		option := strings.TrimSpace(row[2])

		groups[subdomain] = append(groups[subdomain], model.ItemResponse{
			Item:           itemText,
			Subdomain:      subdomain,
			SelectedOption: option,
		})
		responses = append(responses, option)
	}

	return groups, responses, nil
}
