package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexEOFInMultiLine     Code = 1003
	LexBadDedent          Code = 1004
	LexBadNumber          Code = 1005
	LexTabsMixed          Code = 1006

	// Структура блоков
	BlkInfo             Code = 2000
	BlkUnbalancedDedent Code = 2001
	BlkUnclosedIndent   Code = 2002
	BlkMissingBody      Code = 2003
	BlkDuplicateName    Code = 2004

	// Аннотации
	AnnInfo             Code = 3000
	AnnBlockNotFound    Code = 3001
	AnnNotFunction      Code = 3002
	AnnParamNotFound    Code = 3003
	AnnAlreadyAnnotated Code = 3004
	AnnDuplicateParam   Code = 3005
	AnnNoSignature      Code = 3006
	AnnNameConflict     Code = 3007
	AnnConflictingRules Code = 3008

	// Применение правок
	EdtInfo              Code = 4000
	EdtDuplicatePosition Code = 4001
	EdtOutOfRange        Code = 4002

	// Ввод-вывод и внешние инструменты
	IOInfo           Code = 5000
	IOLoadFileError  Code = 5001
	IOWriteError     Code = 5002
	IOCheckerFailed  Code = 5003
	IOBadReport      Code = 5004
	IOBadPlan        Code = 5005
	IOUnknownFile    Code = 5006
	IOCacheFailure   Code = 5007
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string",
	LexEOFInMultiLine:     "End of file in multi-line construct",
	LexBadDedent:          "Unindent does not match any outer level",
	LexBadNumber:          "Bad number",
	LexTabsMixed:          "Inconsistent use of tabs and spaces",

	BlkInfo:             "Block information",
	BlkUnbalancedDedent: "Dedent without matching indent",
	BlkUnclosedIndent:   "Indent never closed",
	BlkMissingBody:      "Definition without body",
	BlkDuplicateName:    "Duplicate block name",

	AnnInfo:             "Annotation information",
	AnnBlockNotFound:    "Block not found",
	AnnNotFunction:      "Block is not a function",
	AnnParamNotFound:    "Parameter not found",
	AnnAlreadyAnnotated: "Already annotated",
	AnnDuplicateParam:   "Duplicate parameter",
	AnnNoSignature:      "Malformed signature",
	AnnNameConflict:     "Import name conflict",
	AnnConflictingRules: "Conflicting annotation requests",

	EdtInfo:              "Edit information",
	EdtDuplicatePosition: "Two edits at one position",
	EdtOutOfRange:        "Edit position out of range",

	IOInfo:          "I/O information",
	IOLoadFileError: "Failed to load file",
	IOWriteError:    "Failed to write file",
	IOCheckerFailed: "Type checker failed",
	IOBadReport:     "Malformed checker report",
	IOBadPlan:       "Malformed edit plan",
	IOUnknownFile:   "File not in report",
	IOCacheFailure:  "Cache failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("BLK%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EDT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
