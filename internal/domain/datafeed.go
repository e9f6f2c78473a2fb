package domain

// General is the header block of a feed response
type General struct {
	Version          int    `json:"version"`
	Reload           int    `json:"reload"`
	Update           string `json:"update"`
	UpdateTimestamp  string `json:"update_timestamp"`
	ConnectedClients int    `json:"connected_clients"`
	UniqueUsers      int    `json:"unique_users"`
}

// Datafeed is one full-state snapshot of the network.
// General.Update is the version key used for deduplication and file naming.
type Datafeed struct {
	General General  `json:"general"`
	Pilots  []*Pilot `json:"pilots"`
}

// VersionKey returns the feed-reported version of this snapshot
func (d *Datafeed) VersionKey() string {
	return d.General.Update
}
