package models

// ObjectList is the response of the global sobjects listing endpoint.
type ObjectList struct {
	Encoding     string          `json:"encoding,omitempty"`
	MaxBatchSize int             `json:"maxBatchSize,omitempty"`
	Sobjects     []ObjectSummary `json:"sobjects"`
}

type ObjectSummary struct {
	Name                string  `json:"name"`
	Label               string  `json:"label"`
	LabelPlural         string  `json:"labelPlural,omitempty"`
	Custom              bool    `json:"custom"`
	Queryable           bool    `json:"queryable"`
	Createable          bool    `json:"createable"`
	Updateable          bool    `json:"updateable"`
	Deletable           bool    `json:"deletable"`
	DeprecatedAndHidden bool    `json:"deprecatedAndHidden"`
	KeyPrefix           *string `json:"keyPrefix"`
}

// ObjectDescribe is the per-object describe payload. Only the attributes the
// normalizer consumes are decoded; the remote API sends several times more.
type ObjectDescribe struct {
	Name               string              `json:"name"`
	Label              string              `json:"label"`
	Custom             bool                `json:"custom"`
	Queryable          bool                `json:"queryable"`
	Createable         bool                `json:"createable"`
	Updateable         bool                `json:"updateable"`
	Deletable          bool                `json:"deletable"`
	KeyPrefix          *string             `json:"keyPrefix"`
	Fields             []RawField          `json:"fields"`
	ChildRelationships []ChildRelationship `json:"childRelationships"`
}

type RawField struct {
	Name               string   `json:"name"`
	Label              string   `json:"label"`
	Type               string   `json:"type"`
	Length             int      `json:"length"`
	Precision          int      `json:"precision"`
	Scale              int      `json:"scale"`
	Digits             int      `json:"digits"`
	Nillable           bool     `json:"nillable"`
	Createable         bool     `json:"createable"`
	Updateable         bool     `json:"updateable"`
	ReferenceTo        []string `json:"referenceTo"`
	RelationshipName   string   `json:"relationshipName"`
	RelationshipOrder  *int     `json:"relationshipOrder"`
	Calculated         bool     `json:"calculated"`
	RestrictedPicklist bool     `json:"restrictedPicklist"`
	DefaultedOnCreate  bool     `json:"defaultedOnCreate"`
	CascadeDelete      bool     `json:"cascadeDelete"`
}

// ChildRelationship is the inverse listing of reference fields pointing at
// this object from other objects.
type ChildRelationship struct {
	ChildSObject        string `json:"childSObject"`
	Field               string `json:"field"`
	RelationshipName    string `json:"relationshipName"`
	CascadeDelete       bool   `json:"cascadeDelete"`
	RestrictedDelete    bool   `json:"restrictedDelete"`
	DeprecatedAndHidden bool   `json:"deprecatedAndHidden"`
}
