// Package common contains shared constants and sentinel errors used across
// drconsole components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Collection names served by the remote resource store.
const (
	CollectionAdvisories        = "advisories"
	CollectionIncidents         = "incidents"
	CollectionEvacuationCenters = "evacuation_centers"
	CollectionResources         = "resources"
	CollectionSitePages         = "site_pages"
)

// Collections lists every collection name the server accepts.
var Collections = []string{
	CollectionAdvisories,
	CollectionIncidents,
	CollectionEvacuationCenters,
	CollectionResources,
	CollectionSitePages,
}

// IsKnownCollection reports whether name is one of Collections.
func IsKnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
