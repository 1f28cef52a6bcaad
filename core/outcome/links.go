package outcome

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fmsedu/curriculum/core"
)

// Relation is a many-to-many mapping between two outcome kinds.
type Relation struct {
	Name    string // URL segment, e.g. "plo-kas"
	Owner   string // side whose set is replaced, e.g. "plo"
	Related string // e.g. "kas"
}

var (
	PLOKAS = Relation{Name: "plo-kas", Owner: "plo", Related: "kas"}
	MLOKAS = Relation{Name: "mlo-kas", Owner: "mlo", Related: "kas"}
	CLOKAS = Relation{Name: "clo-kas", Owner: "clo", Related: "kas"}
	CLOPLO = Relation{Name: "clo-plo", Owner: "clo", Related: "plo"}
	CLOMLO = Relation{Name: "clo-mlo", Owner: "clo", Related: "mlo"}

	Relations = []Relation{PLOKAS, MLOKAS, CLOKAS, CLOPLO, CLOMLO}
)

// RelatedField is the request field holding the related ids, e.g. "kas_ids".
func (rel Relation) RelatedField() string {
	return rel.Related + "_ids"
}

// LinkSet is a replace-all request: after it is applied the owner maps to exactly RelatedIDs.
type LinkSet interface {
	Owner() string
	Related() []string
	Validate(validate *validator.Validate) error
}

// LinkPair identifies one (owner, related) row.
type LinkPair interface {
	Owner() string
	RelatedOne() string
	Validate(validate *validator.Validate) error
}

// NewLinkSet returns the empty request body matching rel, ready to be bound.
func NewLinkSet(rel Relation) LinkSet {
	switch rel {
	case PLOKAS:
		return new(PLOKASSet)
	case MLOKAS:
		return new(MLOKASSet)
	case CLOKAS:
		return new(CLOKASSet)
	case CLOPLO:
		return new(CLOPLOSet)
	case CLOMLO:
		return new(CLOMLOSet)
	}
	return nil
}

// NewLinkPair returns the empty request body matching rel, ready to be bound.
func NewLinkPair(rel Relation) LinkPair {
	switch rel {
	case PLOKAS:
		return new(PLOKASPair)
	case MLOKAS:
		return new(MLOKASPair)
	case CLOKAS:
		return new(CLOKASPair)
	case CLOPLO:
		return new(CLOPLOPair)
	case CLOMLO:
		return new(CLOMLOPair)
	}
	return nil
}

type (
	PLOKASSet struct {
		PLOID  string   `json:"plo_id" validate:"required,uuid"`
		KASIDs []string `json:"kas_ids" validate:"required,dive,uuid"`
	}
	MLOKASSet struct {
		MLOID  string   `json:"mlo_id" validate:"required,uuid"`
		KASIDs []string `json:"kas_ids" validate:"required,dive,uuid"`
	}
	CLOKASSet struct {
		CLOID  string   `json:"clo_id" validate:"required,uuid"`
		KASIDs []string `json:"kas_ids" validate:"required,dive,uuid"`
	}
	CLOPLOSet struct {
		CLOID  string   `json:"clo_id" validate:"required,uuid"`
		PLOIDs []string `json:"plo_ids" validate:"required,dive,uuid"`
	}
	CLOMLOSet struct {
		CLOID  string   `json:"clo_id" validate:"required,uuid"`
		MLOIDs []string `json:"mlo_ids" validate:"required,dive,uuid"`
	}
)

func (s *PLOKASSet) Owner() string                               { return s.PLOID }
func (s *PLOKASSet) Related() []string                           { return s.KASIDs }
func (s *PLOKASSet) Validate(validate *validator.Validate) error { return validate.Struct(s) }
func (s *MLOKASSet) Owner() string                               { return s.MLOID }
func (s *MLOKASSet) Related() []string                           { return s.KASIDs }
func (s *MLOKASSet) Validate(validate *validator.Validate) error { return validate.Struct(s) }
func (s *CLOKASSet) Owner() string                               { return s.CLOID }
func (s *CLOKASSet) Related() []string                           { return s.KASIDs }
func (s *CLOKASSet) Validate(validate *validator.Validate) error { return validate.Struct(s) }
func (s *CLOPLOSet) Owner() string                               { return s.CLOID }
func (s *CLOPLOSet) Related() []string                           { return s.PLOIDs }
func (s *CLOPLOSet) Validate(validate *validator.Validate) error { return validate.Struct(s) }
func (s *CLOMLOSet) Owner() string                               { return s.CLOID }
func (s *CLOMLOSet) Related() []string                           { return s.MLOIDs }
func (s *CLOMLOSet) Validate(validate *validator.Validate) error { return validate.Struct(s) }

type (
	PLOKASPair struct {
		PLOID string `json:"plo_id" validate:"required,uuid"`
		KASID string `json:"kas_id" validate:"required,uuid"`
	}
	MLOKASPair struct {
		MLOID string `json:"mlo_id" validate:"required,uuid"`
		KASID string `json:"kas_id" validate:"required,uuid"`
	}
	CLOKASPair struct {
		CLOID string `json:"clo_id" validate:"required,uuid"`
		KASID string `json:"kas_id" validate:"required,uuid"`
	}
	CLOPLOPair struct {
		CLOID string `json:"clo_id" validate:"required,uuid"`
		PLOID string `json:"plo_id" validate:"required,uuid"`
	}
	CLOMLOPair struct {
		CLOID string `json:"clo_id" validate:"required,uuid"`
		MLOID string `json:"mlo_id" validate:"required,uuid"`
	}
)

func (p *PLOKASPair) Owner() string                               { return p.PLOID }
func (p *PLOKASPair) RelatedOne() string                          { return p.KASID }
func (p *PLOKASPair) Validate(validate *validator.Validate) error { return validate.Struct(p) }
func (p *MLOKASPair) Owner() string                               { return p.MLOID }
func (p *MLOKASPair) RelatedOne() string                          { return p.KASID }
func (p *MLOKASPair) Validate(validate *validator.Validate) error { return validate.Struct(p) }
func (p *CLOKASPair) Owner() string                               { return p.CLOID }
func (p *CLOKASPair) RelatedOne() string                          { return p.KASID }
func (p *CLOKASPair) Validate(validate *validator.Validate) error { return validate.Struct(p) }
func (p *CLOPLOPair) Owner() string                               { return p.CLOID }
func (p *CLOPLOPair) RelatedOne() string                          { return p.PLOID }
func (p *CLOPLOPair) Validate(validate *validator.Validate) error { return validate.Struct(p) }
func (p *CLOMLOPair) Owner() string                               { return p.CLOID }
func (p *CLOMLOPair) RelatedOne() string                          { return p.MLOID }
func (p *CLOMLOPair) Validate(validate *validator.Validate) error { return validate.Struct(p) }

// NormalizeIDs lowers the ids and drops duplicates, keeping the first occurrence.
func NormalizeIDs(ids []string) []string {
	lowered := make([]string, len(ids))
	for i, id := range ids {
		lowered[i] = strings.ToLower(core.CleanString(id))
	}
	return core.DedupeStrings(lowered)
}

// MissingIDs returns the requested ids absent from found, in request order.
func MissingIDs(requested, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, id := range found {
		have[strings.ToLower(id)] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
