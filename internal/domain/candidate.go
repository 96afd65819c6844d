package domain

// Candidate is a deduplicated business record, merged across channels.
// Within one job, Domain (when present) is unique across the candidate set.
type Candidate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Domain  string `json:"domain,omitempty"`

	// Channel provenance. Positions are 1-based ranks within the channel.
	FoundInAds      bool `json:"found_in_ads"`
	AdPosition      int  `json:"ad_position,omitempty"`
	FoundInMaps     bool `json:"found_in_maps"`
	MapsPosition    int  `json:"maps_position,omitempty"`
	FoundInOrganic  bool `json:"found_in_organic"`
	OrganicPosition int  `json:"organic_position,omitempty"`

	// Business-profile fields, maps channel only.
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// Channels lists the contributing channels in priority order.
func (c Candidate) Channels() []Channel {
	var out []Channel
	if c.FoundInMaps {
		out = append(out, ChannelMaps)
	}
	if c.FoundInAds {
		out = append(out, ChannelAds)
	}
	if c.FoundInOrganic {
		out = append(out, ChannelOrganic)
	}
	return out
}
