package store

// EdgeQueryKind selects one of the four edge query shapes. The shape
// is derived once at the boundary from which of the endpoint ids are
// supplied, instead of re-branching on empty checks inside the
// traversal logic.
type EdgeQueryKind int

const (
	// ExactEdge checks existence of a single (from, relation, to)
	// triple. At most one row per relation type.
	ExactEdge EdgeQueryKind = iota

	// OutgoingEdges returns edges leaving FromID.
	OutgoingEdges

	// IncomingEdges returns edges arriving at ToID. This is the one
	// shape the edge table's natural clustering cannot serve; stores
	// answer it from a reverse index.
	IncomingEdges

	// EdgesOfType returns all edges of Relation in the partition.
	EdgesOfType
)

func (k EdgeQueryKind) String() string {
	switch k {
	case ExactEdge:
		return "exact_edge"
	case OutgoingEdges:
		return "outgoing"
	case IncomingEdges:
		return "incoming"
	default:
		return "all_of_type"
	}
}

// EdgeQuery is a tagged edge query variant. Relation may be empty for
// the ExactEdge, OutgoingEdges, and IncomingEdges shapes, meaning any
// relation type; EdgesOfType always names a relation.
type EdgeQuery struct {
	Kind     EdgeQueryKind
	Relation string
	FromID   string
	ToID     string
	Limit    int
}

// NewEdgeQuery derives the query shape from which endpoint ids are
// present, mirroring how callers of the relationship API express the
// four lookups.
func NewEdgeQuery(relation, fromID, toID string, limit int) EdgeQuery {
	q := EdgeQuery{Relation: relation, FromID: fromID, ToID: toID, Limit: limit}
	switch {
	case fromID != "" && toID != "":
		q.Kind = ExactEdge
	case fromID != "":
		q.Kind = OutgoingEdges
	case toID != "":
		q.Kind = IncomingEdges
	default:
		q.Kind = EdgesOfType
	}
	return q
}

// Template returns the query template name executed for this shape.
func (q EdgeQuery) Template() string {
	switch q.Kind {
	case ExactEdge:
		return TemplateEdgeExact
	case OutgoingEdges:
		return TemplateEdgeOutgoing
	case IncomingEdges:
		return TemplateEdgeIncoming
	default:
		return TemplateEdgeByType
	}
}
