package annotate

import (
	"encoding/json"
	"fmt"
)

// Request asks for one annotation: the return type of BlockName when Param
// is empty, otherwise the type of parameter Param.
type Request struct {
	BlockName      string `json:"block_name"`
	TypeName       string `json:"type_name"`
	Param          string `json:"param"`
	PreferImportAs bool   `json:"prefer_import_as"`
}

// IsReturn reports whether the request targets the return type.
func (r Request) IsReturn() bool { return r.Param == "" }

func (r Request) String() string {
	if r.IsReturn() {
		return fmt.Sprintf("%s -> %s", r.BlockName, r.TypeName)
	}
	return fmt.Sprintf("%s(%s: %s)", r.BlockName, r.Param, r.TypeName)
}

// wireRequest accepts the older key spellings as well.
type wireRequest struct {
	BlockName      string `json:"block_name"`
	FunctionName   string `json:"function_name"`
	TypeName       string `json:"type_name"`
	Param          string `json:"param"`
	PreferImportAs *bool  `json:"prefer_import_as"`
	PreferAs       *bool  `json:"prefer_as"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Request{BlockName: w.BlockName, TypeName: w.TypeName, Param: w.Param}
	if r.BlockName == "" {
		r.BlockName = w.FunctionName
	}
	switch {
	case w.PreferImportAs != nil:
		r.PreferImportAs = *w.PreferImportAs
	case w.PreferAs != nil:
		r.PreferImportAs = *w.PreferAs
	}
	return nil
}
