package domain

// DocumentChange is emitted by the editing surface after every edit.
type DocumentChange struct {
	// Mapping transforms positions of the previous document into the new one.
	Mapping Mapping

	// Forced marks an explicit refresh (content reload, external command)
	// after which existing positions cannot be trusted.
	Forced bool

	// Revision is the document revision after the change.
	Revision uint64

	// Size is the content size of the document after the change.
	Size int
}

// DocumentEvent is the tagged union consumed by the decoration reducer.
// Implementations are Edited, AnalysisArrived and ForceCleared.
type DocumentEvent interface {
	documentEvent()
}

// Edited reports an ordinary edit whose position transform is known.
type Edited struct {
	Mapping  Mapping
	Size     int
	Revision uint64
}

// AnalysisArrived carries freshly mapped ranges for the current document.
type AnalysisArrived struct {
	Ranges []MappedRange

	// DocRevision is the document revision the ranges were mapped against.
	DocRevision uint64
}

// ForceCleared discards the live set until the next analysis result.
type ForceCleared struct {
	Revision uint64
}

func (Edited) documentEvent()          {}
func (AnalysisArrived) documentEvent() {}
func (ForceCleared) documentEvent()    {}

// EventFor converts a surface change into the reducer event it implies.
func EventFor(change DocumentChange) DocumentEvent {
	if change.Forced {
		return ForceCleared{Revision: change.Revision}
	}
	return Edited{Mapping: change.Mapping, Size: change.Size, Revision: change.Revision}
}
