package importer

import (
	"fmt"
	"linkroute/core"

	"github.com/google/uuid"
)

// linkNamespace seeds the name-based ids of anonymous links.
var linkNamespace = uuid.MustParse("6f1c1f2e-3a5b-4c8e-9a51-0d2f6b7c8e91")

// AssignLinkIDs gives every link without an id a name-based UUID derived
// from its ends and position, so importing the same scene twice yields the
// same ids.
func AssignLinkIDs(scene *core.Scene) {
	for i := range scene.Links {
		l := &scene.Links[i]
		if l.ID != "" {
			continue
		}
		name := fmt.Sprintf("%d:%s:%s", i, endKey(l.Source), endKey(l.Target))
		l.ID = uuid.NewSHA1(linkNamespace, []byte(name)).String()
	}
}

func endKey(e core.LinkEnd) string {
	if e.IsFree() && e.Point != nil {
		return e.Point.String()
	}
	return e.ShapeID
}
