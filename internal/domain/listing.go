package domain

// Channel identifies which part of the search results page a listing came from.
type Channel string

const (
	ChannelAds     Channel = "ads"
	ChannelMaps    Channel = "maps"
	ChannelOrganic Channel = "organic"
)

// Priority returns the merge authority of a channel. Maps listings carry the
// most reliable contact data, ads the most reliable promoted URL, organic the
// least. Higher wins.
func (c Channel) Priority() int {
	switch c {
	case ChannelMaps:
		return 3
	case ChannelAds:
		return 2
	case ChannelOrganic:
		return 1
	}
	return 0
}

// RawListing is one entry from one discovery channel, before dedupe.
type RawListing struct {
	Channel     Channel
	Position    int // 1-based rank within its channel
	Name        string
	Address     string
	Phone       string
	Website     string
	Rating      *float64
	ReviewCount *int
	Category    string
	OrganicRank int // only set for organic listings
}

// ChannelResults holds the raw per-channel lists from one discovery call.
type ChannelResults struct {
	Query    string
	Location string
	Ads      []RawListing
	Maps     []RawListing
	Organic  []RawListing
}

// Empty reports whether every channel came back with nothing. An empty result
// is valid, not an error.
func (r ChannelResults) Empty() bool {
	return len(r.Ads) == 0 && len(r.Maps) == 0 && len(r.Organic) == 0
}
