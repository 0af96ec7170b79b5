package briefing

// Well-known CampaignData keys. The same key may be written by more than one
// step; last writer wins. Keys absent until their owning step completes.
const (
	KeyCampaignName   = "campaign_name"
	KeyCampaignType   = "campaign_type"
	KeyChannel        = "channel"
	KeyOffer          = "offer"
	KeyAdditionalInfo = "additional_info"
	KeySourceBase     = "source_base"
	KeySourceBaseID   = "source_base_id"
	KeyBaseOrigin     = "base_origin"
	KeySegmentation   = "segmentation"
	KeyGeneratedQuery = "generated_query"
	// KeyGeneratedQueryAlias is the legacy camelCase mirror of generated_query.
	// Older report readers still look it up, so both are written together.
	KeyGeneratedQueryAlias = "generatedQuery"
	KeyAudienceVolume      = "audience_volume"
	KeyEstimatedCosts      = "estimated_costs"
	KeyAudienceInfo        = "audienceInfo"
	KeyQueries             = "queries"
)

// CampaignData is the single source of truth for one wizard session: a free-form
// mapping from field name to value (string, []string, float64, bool, or a nested
// map). Steps merge partial patches into it; no step may assume a key written by
// a later step is present.
type CampaignData map[string]any

// InitialCampaignData returns the canonical empty state a fresh session starts
// from, and the state Reset restores.
func InitialCampaignData() CampaignData {
	return CampaignData{}
}

// Clone returns a copy that shares no top-level structure with d. Nested maps
// and slices are copied one level deep, which covers every value shape the
// wizard writes.
func (d CampaignData) Clone() CampaignData {
	out := make(CampaignData, len(d))
	for k, v := range d {
		switch tv := v.(type) {
		case []string:
			out[k] = append([]string(nil), tv...)
		case []any:
			out[k] = append([]any(nil), tv...)
		case map[string]any:
			m := make(map[string]any, len(tv))
			for mk, mv := range tv {
				m[mk] = mv
			}
			out[k] = m
		case map[string]string:
			m := make(map[string]string, len(tv))
			for mk, mv := range tv {
				m[mk] = mv
			}
			out[k] = m
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the value under key as a string, or "" when absent or of
// another type.
func (d CampaignData) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Strings returns the value under key as a string slice. JSON round-trips turn
// []string into []any, so both shapes are accepted.
func (d CampaignData) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Float returns the value under key as a float64, or 0 when absent. JSON
// numbers decode as float64, so int values are converted.
func (d CampaignData) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the value under key as a bool, or false when absent.
func (d CampaignData) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Has reports whether key is present, regardless of value.
func (d CampaignData) Has(key string) bool {
	_, ok := d[key]
	return ok
}
