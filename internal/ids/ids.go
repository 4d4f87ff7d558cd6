package ids

import "go.mongodb.org/mongo-driver/bson/primitive"

// Len is the length of a task id: 12 bytes, hex encoded.
const Len = 24

// NewID returns a fresh task id. Every store hands out ids of the same shape
// so Valid can be checked at the API boundary without knowing the backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// Valid reports whether id has the shape of a task id: Len lowercase hex
// digits, the only form the stores hand out.
func Valid(id string) bool {
	if len(id) != Len {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
