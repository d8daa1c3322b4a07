package rules

import "github.com/leapstack-labs/g2kts/pkg/gtree"

// dottedName returns the text of an identifier or a plain dotted property
// chain such as org.example.Copy.
func dottedName(e gtree.Expression) (string, bool) {
	switch e := e.(type) {
	case *gtree.Identifier:
		return e.Name, true
	case *gtree.PropertyAccess:
		if e.Safe {
			return "", false
		}
		prefix, ok := dottedName(e.Object)
		if !ok {
			return "", false
		}
		return prefix + "." + e.Name, true
	}
	return "", false
}
