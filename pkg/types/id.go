package types

import "fmt"

// IDSuffixLen is the length of the fixed "-YYYY-MM-DD-<ed>-iNNNN" suffix
// that every content item ID ends in.
const IDSuffixLen = 19

// yearInSuffixStart/End locate "YYYY" within the 19-character suffix,
// counted from the end of ID: "-YYYY-MM-DD-<ed>-iNNNN"
//
//	...-1-9-0-0- -0-1- -0-1-a- -i-0-0-0-1
//	    18       14
const (
	yearOffsetFromEnd = 18
	yearLen           = 4
)

// ParseID splits a content item ID into its collection prefix and year:
// collection = id[:len(id)-19], year = id[-18:-14].
func ParseID(id string) (collection, year string, err error) {
	if len(id) <= IDSuffixLen {
		return "", "", fmt.Errorf("types: id %q shorter than the fixed 19-char suffix", id)
	}
	collection = id[:len(id)-IDSuffixLen]
	start := len(id) - yearOffsetFromEnd
	year = id[start : start+yearLen]
	return collection, year, nil
}
