package dedupe

import (
	"log"
	"sort"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// candidate wraps a domain.Candidate with the bookkeeping the merger needs.
type candidate struct {
	c     domain.Candidate
	order int // creation order, stable within a channel group
}

type index struct {
	byDomain    map[string]*candidate
	byNamePhone map[string]*candidate
	byNameAddr  map[string]*candidate
	all         []*candidate
	next        int // creation counter; stays unique across absorbs
}

func newIndex() *index {
	return &index{
		byDomain:    make(map[string]*candidate),
		byNamePhone: make(map[string]*candidate),
		byNameAddr:  make(map[string]*candidate),
	}
}

// Merge collapses raw per-channel listings into a deduplicated candidate set.
//
// Listings are consumed in channel priority order (maps, ads, organic) and in
// input order within a channel, so a fill-missing merge yields the
// highest-priority non-empty value per field with first-seen winning ties.
// Identity keys, strongest first: normalized domain, (name, phone),
// (name, address). The limit is applied after ordering, never before merge.
func Merge(results domain.ChannelResults, limit int) []domain.Candidate {
	idx := newIndex()

	total := 0
	for _, group := range [][]domain.RawListing{results.Maps, results.Ads, results.Organic} {
		for _, l := range group {
			total++
			idx.add(l)
		}
	}

	out := idx.ordered()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	log.Printf("[dedupe] merged %d listings into %d candidates (limit %d)", total, len(out), limit)
	return out
}

func (idx *index) add(l domain.RawListing) {
	dom := NormalizeDomain(l.Website)
	if dom != "" && IsDirectoryDomain(dom) {
		return
	}
	name := NormalizeName(l.Name)
	phone := NormalizePhone(l.Phone)
	addr := NormalizeAddress(l.Address)

	found := idx.matches(dom, name, phone, addr)
	if len(found) == 0 {
		idx.register(idx.create(l, dom, name, phone, addr), dom, name, phone, addr)
		return
	}

	// One listing can bridge candidates that were distinct until now, e.g.
	// its domain owned by one and its (name, phone) pointing at another.
	// The first-seen candidate survives, so field ties keep the value from
	// the earliest sighting; earlier always means an equal or higher
	// priority channel.
	target := found[0]
	for _, c := range found[1:] {
		if c.order < target.order {
			target = c
		}
	}
	for _, c := range found {
		if c != target {
			idx.absorb(target, c)
		}
	}
	idx.fill(target, l, dom)
	idx.register(target, dom, name, phone, addr)
}

// matches resolves the identity keys and returns every distinct existing
// candidate they point at, strongest key first.
func (idx *index) matches(dom, name, phone, addr string) []*candidate {
	var out []*candidate
	seen := make(map[*candidate]bool)
	hit := func(c *candidate, ok bool) {
		if ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if dom != "" {
		c, ok := idx.byDomain[dom]
		hit(c, ok)
	}
	if name != "" && phone != "" {
		c, ok := idx.byNamePhone[name+"|"+phone]
		hit(c, ok)
	}
	if name != "" && addr != "" {
		c, ok := idx.byNameAddr[name+"|"+addr]
		hit(c, ok)
	}
	return out
}

func (idx *index) create(l domain.RawListing, dom, name, phone, addr string) *candidate {
	key := "domain:" + dom
	if dom == "" {
		switch {
		case phone != "":
			key = "name-phone:" + name + "|" + phone
		case addr != "":
			key = "name-addr:" + name + "|" + addr
		default:
			key = "name:" + name
		}
	}
	c := &candidate{
		c: domain.Candidate{
			ID:      CandidateID(key),
			Name:    l.Name,
			Address: l.Address,
			Phone:   l.Phone,
			Website: l.Website,
			Domain:  dom,
		},
		order: idx.next,
	}
	idx.next++
	markChannel(&c.c, l)
	idx.all = append(idx.all, c)
	return c
}

// fill merges a lower-priority listing into an existing candidate: empty
// fields are filled, populated ones are kept.
func (idx *index) fill(target *candidate, l domain.RawListing, dom string) {
	c := &target.c
	if c.Address == "" {
		c.Address = l.Address
	}
	if c.Phone == "" {
		c.Phone = l.Phone
	}
	if c.Website == "" {
		c.Website = l.Website
	}
	if c.Domain == "" && dom != "" {
		c.Domain = dom
	}
	markChannel(c, l)
}

// absorb merges src into dst, keeping dst's field values (dst was seen first
// from an equal or higher priority channel) and the union of channels.
func (idx *index) absorb(dst, src *candidate) {
	d, s := &dst.c, &src.c
	if d.Address == "" {
		d.Address = s.Address
	}
	if d.Phone == "" {
		d.Phone = s.Phone
	}
	if d.Website == "" {
		d.Website = s.Website
	}
	if d.Rating == nil {
		d.Rating = s.Rating
	}
	if d.ReviewCount == nil {
		d.ReviewCount = s.ReviewCount
	}
	if d.Category == "" {
		d.Category = s.Category
	}
	mergeProvenance(d, s)

	for k, v := range idx.byDomain {
		if v == src {
			idx.byDomain[k] = dst
		}
	}
	for k, v := range idx.byNamePhone {
		if v == src {
			idx.byNamePhone[k] = dst
		}
	}
	for k, v := range idx.byNameAddr {
		if v == src {
			idx.byNameAddr[k] = dst
		}
	}
	for i, v := range idx.all {
		if v == src {
			idx.all = append(idx.all[:i], idx.all[i+1:]...)
			break
		}
	}
}

func (idx *index) register(c *candidate, dom, name, phone, addr string) {
	if dom != "" {
		if _, ok := idx.byDomain[dom]; !ok {
			idx.byDomain[dom] = c
		}
	}
	if name != "" && phone != "" {
		if _, ok := idx.byNamePhone[name+"|"+phone]; !ok {
			idx.byNamePhone[name+"|"+phone] = c
		}
	}
	if name != "" && addr != "" {
		if _, ok := idx.byNameAddr[name+"|"+addr]; !ok {
			idx.byNameAddr[name+"|"+addr] = c
		}
	}
}

func markChannel(c *domain.Candidate, l domain.RawListing) {
	switch l.Channel {
	case domain.ChannelMaps:
		c.FoundInMaps = true
		if c.MapsPosition == 0 || (l.Position > 0 && l.Position < c.MapsPosition) {
			c.MapsPosition = l.Position
		}
		if c.Rating == nil {
			c.Rating = l.Rating
		}
		if c.ReviewCount == nil {
			c.ReviewCount = l.ReviewCount
		}
		if c.Category == "" {
			c.Category = l.Category
		}
	case domain.ChannelAds:
		c.FoundInAds = true
		if c.AdPosition == 0 || (l.Position > 0 && l.Position < c.AdPosition) {
			c.AdPosition = l.Position
		}
	case domain.ChannelOrganic:
		c.FoundInOrganic = true
		rank := l.OrganicRank
		if rank == 0 {
			rank = l.Position
		}
		if c.OrganicPosition == 0 || (rank > 0 && rank < c.OrganicPosition) {
			c.OrganicPosition = rank
		}
	}
}

func mergeProvenance(d, s *domain.Candidate) {
	if s.FoundInMaps {
		d.FoundInMaps = true
		if d.MapsPosition == 0 || (s.MapsPosition > 0 && s.MapsPosition < d.MapsPosition) {
			d.MapsPosition = s.MapsPosition
		}
	}
	if s.FoundInAds {
		d.FoundInAds = true
		if d.AdPosition == 0 || (s.AdPosition > 0 && s.AdPosition < d.AdPosition) {
			d.AdPosition = s.AdPosition
		}
	}
	if s.FoundInOrganic {
		d.FoundInOrganic = true
		if d.OrganicPosition == 0 || (s.OrganicPosition > 0 && s.OrganicPosition < d.OrganicPosition) {
			d.OrganicPosition = s.OrganicPosition
		}
	}
}

// channelGroup ranks candidates for output ordering: maps-containing first,
// then ads-containing, then organic-only.
func channelGroup(c domain.Candidate) int {
	switch {
	case c.FoundInMaps:
		return 0
	case c.FoundInAds:
		return 1
	default:
		return 2
	}
}

func (idx *index) ordered() []domain.Candidate {
	sorted := make([]*candidate, len(idx.all))
	copy(sorted, idx.all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return channelGroup(sorted[i].c) < channelGroup(sorted[j].c)
	})
	out := make([]domain.Candidate, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.c)
	}
	return out
}
