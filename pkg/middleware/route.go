package middleware

import "strings"

// RouteLabel collapses ObjectID path segments into ":id" so metric labels and
// span names stay low-cardinality, e.g. /products/507f1f77bcf86cd799439011
// becomes /products/:id.
func RouteLabel(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if isHexID(segment) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isHexID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
