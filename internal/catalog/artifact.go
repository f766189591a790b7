package catalog

// View is one parsed source photograph: its pose token, the resolved
// absolute path of the original file, and the pixel dimensions read from
// the file header. Views are never mutated after the scan.
type View struct {
	Pose       string
	SourcePath string
	Width      int
	Height     int
}

// Artifact groups every View that belongs to one catalog id. An Artifact
// exists only for ids that had at least one matching source file; its
// Views keep directory scan order.
type Artifact struct {
	ID    int
	Views []View
}

// ViewFor returns the first View with the given pose. A catalog item may
// legitimately lack a pose, in which case ok is false and derivative
// generators skip the artifact.
func (a *Artifact) ViewFor(pose string) (View, bool) {
	for _, v := range a.Views {
		if v.Pose == pose {
			return v, true
		}
	}
	return View{}, false
}
