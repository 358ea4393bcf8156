// Package dataset reads award and transaction files into the engine's types.
//
// Files are JSON (comments and trailing commas allowed), or YAML when the
// extension is .yaml or .yml. Awards are a
// top-level array or an object with an "awards" (or "results") array.
// Transactions are either an array, grouped here by awardId, or an object
// mapping award id to its transactions.
package dataset

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"
	"sigs.k8s.io/yaml"

	"github.com/layonez/bid-buster-sub000/internal/types"
)

type awardEnvelope struct {
	Awards  []types.NormalizedAward `json:"awards"`
	Results []types.NormalizedAward `json:"results"`
}

// LoadAwards reads awards from path.
func LoadAwards(path string) ([]types.NormalizedAward, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	awards, err := ParseAwards(data)
	if err != nil {
		return nil, fmt.Errorf("parsing awards %s: %w", path, err)
	}
	return awards, nil
}

// ParseAwards decodes JSON award data.
func ParseAwards(data []byte) ([]types.NormalizedAward, error) {
	switch firstByte(data) {
	case '[':
		var awards []types.NormalizedAward
		if err := json.Unmarshal(data, &awards); err != nil {
			return nil, err
		}
		return awards, nil
	case '{':
		var env awardEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		if env.Awards != nil {
			return env.Awards, nil
		}
		return env.Results, nil
	case 0:
		return nil, nil
	default:
		return nil, fmt.Errorf("expected an array or object of awards")
	}
}

// LoadTransactions reads per-award transactions from path.
func LoadTransactions(path string) (map[string][]types.Transaction, error) {
	data, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	txns, err := ParseTransactions(data)
	if err != nil {
		return nil, fmt.Errorf("parsing transactions %s: %w", path, err)
	}
	return txns, nil
}

// ParseTransactions decodes JSON transaction data. Array entries without an
// awardId are dropped.
func ParseTransactions(data []byte) (map[string][]types.Transaction, error) {
	out := make(map[string][]types.Transaction)
	switch firstByte(data) {
	case '[':
		var list []types.Transaction
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		for _, t := range list {
			if t.AwardID == "" {
				continue
			}
			out[t.AwardID] = append(out[t.AwardID], t)
		}
	case '{':
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	case 0:
	default:
		return nil, fmt.Errorf("expected an array or object of transactions")
	}
	return out, nil
}

// Digest returns the hex BLAKE3-256 digest of the files' contents, in order.
// Reports carry it so a run can be tied to the exact input it screened.
func Digest(paths ...string) (string, error) {
	h := blake3.New()
	for _, path := range paths {
		if path == "" {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", path, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// readJSON returns the file contents as JSON, converting YAML by extension
// and stripping JSONC comments otherwise.
func readJSON(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("converting %s to JSON: %w", path, err)
		}
	default:
		data = jsonc.ToJSON(data)
	}
	return data, nil
}

// firstByte returns the first non-space byte, or 0 for blank input.
func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}
