package asm

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions (CPython 3.11)
// ---------------------------------------------------------------------------

// Opcode is a CPython 3.11 instruction opcode. Valid opcodes occupy
// 0..255; the int base leaves room to reject out-of-range values
// instead of silently truncating them.
type Opcode int

// Stack Manipulation
const (
	OpCache    Opcode = 0   // placeholder filled by the specializing interpreter
	OpPopTop   Opcode = 1   // discard top of stack
	OpPushNull Opcode = 2   // push NULL (callable sentinel)
	OpNop      Opcode = 9   // no operation
	OpSwap     Opcode = 99  // swap top with the i-th stack item
	OpCopy     Opcode = 120 // push a copy of the i-th stack item
)

// Unary Operations
const (
	OpUnaryPositive Opcode = 10 // +x
	OpUnaryNegative Opcode = 11 // -x
	OpUnaryNot      Opcode = 12 // not x
	OpUnaryInvert   Opcode = 15 // ~x
)

// Binary Operations
const (
	OpBinarySubscr Opcode = 25  // x[y]
	OpStoreSubscr  Opcode = 60  // x[y] = z
	OpDeleteSubscr Opcode = 61  // del x[y]
	OpCompareOp    Opcode = 107 // rich comparison, operator in operand
	OpIsOp         Opcode = 117 // is / is not
	OpContainsOp   Opcode = 118 // in / not in
	OpBinaryOp     Opcode = 122 // arithmetic or bitwise op, operator in operand
)

// Constants and Names
const (
	OpStoreName    Opcode = 90  // bind name in the local namespace
	OpDeleteName   Opcode = 91  // unbind name
	OpLoadConst    Opcode = 100 // push constant pool entry
	OpLoadName     Opcode = 101 // push name lookup result
	OpStoreAttr    Opcode = 95  // x.attr = y
	OpDeleteAttr   Opcode = 96  // del x.attr
	OpStoreGlobal  Opcode = 97  // bind global
	OpDeleteGlobal Opcode = 98  // unbind global
	OpLoadAttr     Opcode = 106 // push x.attr
	OpLoadGlobal   Opcode = 116 // push global lookup result
	OpImportName   Opcode = 108 // import module
	OpImportFrom   Opcode = 109 // import attribute from module
	OpImportStar   Opcode = 84  // from module import *
)

// Fast Locals and Cells
const (
	OpLoadFast       Opcode = 124 // push local slot
	OpStoreFast      Opcode = 125 // store into local slot
	OpDeleteFast     Opcode = 126 // clear local slot
	OpMakeCell       Opcode = 135 // wrap slot in a cell
	OpLoadClosure    Opcode = 136 // push cell for closure construction
	OpLoadDeref      Opcode = 137 // push cell contents
	OpStoreDeref     Opcode = 138 // store into cell
	OpDeleteDeref    Opcode = 139 // clear cell
	OpLoadClassderef Opcode = 148 // class-body cell lookup
	OpCopyFreeVars   Opcode = 149 // copy free variables into the frame
)

// Collection Construction
const (
	OpBuildTuple       Opcode = 102
	OpBuildList        Opcode = 103
	OpBuildSet         Opcode = 104
	OpBuildMap         Opcode = 105
	OpBuildSlice       Opcode = 133
	OpListToTuple      Opcode = 82
	OpListAppend       Opcode = 145 // comprehension helper
	OpSetAdd           Opcode = 146 // comprehension helper
	OpMapAdd           Opcode = 147 // comprehension helper
	OpBuildConstKeyMap Opcode = 156
	OpBuildString      Opcode = 157
	OpListExtend       Opcode = 162
	OpSetUpdate        Opcode = 163
	OpDictMerge        Opcode = 164
	OpDictUpdate       Opcode = 165
)

// Iteration and Unpacking
const (
	OpGetLen           Opcode = 30 // push len(top) without popping
	OpGetIter          Opcode = 68 // push iter(top)
	OpGetYieldFromIter Opcode = 69
	OpUnpackSequence   Opcode = 92 // unpack exactly n items
	OpForIter          Opcode = 93 // advance iterator or jump past loop
	OpUnpackEx         Opcode = 94 // unpack with starred target
)

// Jumps (operands are instruction deltas)
const (
	OpJumpForward              Opcode = 110
	OpJumpIfFalseOrPop         Opcode = 111
	OpJumpIfTrueOrPop          Opcode = 112
	OpPopJumpForwardIfFalse    Opcode = 114
	OpPopJumpForwardIfTrue     Opcode = 115
	OpPopJumpForwardIfNotNone  Opcode = 128
	OpPopJumpForwardIfNone     Opcode = 129
	OpJumpBackwardNoInterrupt  Opcode = 134
	OpJumpBackward             Opcode = 140
	OpPopJumpBackwardIfNotNone Opcode = 173
	OpPopJumpBackwardIfNone    Opcode = 174
	OpPopJumpBackwardIfFalse   Opcode = 175
	OpPopJumpBackwardIfTrue    Opcode = 176
)

// Calls and Functions
const (
	OpReturnValue     Opcode = 83  // return top of stack
	OpReturnGenerator Opcode = 75  // create and return the generator object
	OpYieldValue      Opcode = 86  // yield top of stack
	OpResume          Opcode = 151 // frame entry / resumption point
	OpSend            Opcode = 123 // send into a subgenerator
	OpGetAwaitable    Opcode = 131
	OpAsyncGenWrap    Opcode = 87
	OpMakeFunction    Opcode = 132 // build function object from code object
	OpCallFunctionEx  Opcode = 142 // call with unpacked argument tuple/dict
	OpLoadMethod      Opcode = 160 // method lookup for a following call
	OpPrecall         Opcode = 166 // call setup, operand is argument count
	OpCall            Opcode = 171 // call, operand is argument count
	OpKwNames         Opcode = 172 // keyword names tuple for a following call
)

// Exception Handling
const (
	OpPushExcInfo        Opcode = 35 // handler entry: push exception state
	OpCheckExcMatch      Opcode = 36 // except clause type test
	OpCheckEgMatch       Opcode = 37 // except* clause group split
	OpWithExceptStart    Opcode = 49 // call __exit__ with exception details
	OpLoadAssertionError Opcode = 74
	OpPopExcept          Opcode = 89  // restore previous exception state
	OpRaiseVarargs       Opcode = 130 // raise, operand selects the form
	OpReraise            Opcode = 119 // re-raise, operand selects lasti restore
	OpPrepReraiseStar    Opcode = 88  // except* epilogue
)

// Context Managers and Async
const (
	OpBeforeWith      Opcode = 53 // push __exit__, call __enter__
	OpBeforeAsyncWith Opcode = 52
	OpGetAiter        Opcode = 50
	OpGetAnext        Opcode = 51
	OpEndAsyncFor     Opcode = 54
)

// Pattern Matching
const (
	OpMatchMapping  Opcode = 31
	OpMatchSequence Opcode = 32
	OpMatchKeys     Opcode = 33
	OpMatchClass    Opcode = 152
)

// Miscellaneous
const (
	OpPrintExpr        Opcode = 70  // REPL expression display
	OpLoadBuildClass   Opcode = 71  // push builtins.__build_class__
	OpSetupAnnotations Opcode = 85  // ensure __annotations__ exists
	OpFormatValue      Opcode = 155 // f-string conversion and formatting
	OpExtendedArg      Opcode = 144 // operand prefix byte, 0x90
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name   string // canonical mnemonic
	Caches int    // inline cache entries following the instruction
}

// opcodeTable maps opcodes to their metadata. Cache counts are the
// 3.11 specializing interpreter's per-opcode inline cache sizes, in
// entries of two bytes each.
var opcodeTable = map[Opcode]OpcodeInfo{
	// Stack manipulation
	OpCache:    {"CACHE", 0},
	OpPopTop:   {"POP_TOP", 0},
	OpPushNull: {"PUSH_NULL", 0},
	OpNop:      {"NOP", 0},
	OpSwap:     {"SWAP", 0},
	OpCopy:     {"COPY", 0},

	// Unary operations
	OpUnaryPositive: {"UNARY_POSITIVE", 0},
	OpUnaryNegative: {"UNARY_NEGATIVE", 0},
	OpUnaryNot:      {"UNARY_NOT", 0},
	OpUnaryInvert:   {"UNARY_INVERT", 0},

	// Binary operations
	OpBinarySubscr: {"BINARY_SUBSCR", 4},
	OpStoreSubscr:  {"STORE_SUBSCR", 1},
	OpDeleteSubscr: {"DELETE_SUBSCR", 0},
	OpCompareOp:    {"COMPARE_OP", 2},
	OpIsOp:         {"IS_OP", 0},
	OpContainsOp:   {"CONTAINS_OP", 0},
	OpBinaryOp:     {"BINARY_OP", 1},

	// Constants and names
	OpStoreName:    {"STORE_NAME", 0},
	OpDeleteName:   {"DELETE_NAME", 0},
	OpLoadConst:    {"LOAD_CONST", 0},
	OpLoadName:     {"LOAD_NAME", 0},
	OpStoreAttr:    {"STORE_ATTR", 4},
	OpDeleteAttr:   {"DELETE_ATTR", 0},
	OpStoreGlobal:  {"STORE_GLOBAL", 0},
	OpDeleteGlobal: {"DELETE_GLOBAL", 0},
	OpLoadAttr:     {"LOAD_ATTR", 4},
	OpLoadGlobal:   {"LOAD_GLOBAL", 5},
	OpImportName:   {"IMPORT_NAME", 0},
	OpImportFrom:   {"IMPORT_FROM", 0},
	OpImportStar:   {"IMPORT_STAR", 0},

	// Fast locals and cells
	OpLoadFast:       {"LOAD_FAST", 0},
	OpStoreFast:      {"STORE_FAST", 0},
	OpDeleteFast:     {"DELETE_FAST", 0},
	OpMakeCell:       {"MAKE_CELL", 0},
	OpLoadClosure:    {"LOAD_CLOSURE", 0},
	OpLoadDeref:      {"LOAD_DEREF", 0},
	OpStoreDeref:     {"STORE_DEREF", 0},
	OpDeleteDeref:    {"DELETE_DEREF", 0},
	OpLoadClassderef: {"LOAD_CLASSDEREF", 0},
	OpCopyFreeVars:   {"COPY_FREE_VARS", 0},

	// Collection construction
	OpBuildTuple:       {"BUILD_TUPLE", 0},
	OpBuildList:        {"BUILD_LIST", 0},
	OpBuildSet:         {"BUILD_SET", 0},
	OpBuildMap:         {"BUILD_MAP", 0},
	OpBuildSlice:       {"BUILD_SLICE", 0},
	OpListToTuple:      {"LIST_TO_TUPLE", 0},
	OpListAppend:       {"LIST_APPEND", 0},
	OpSetAdd:           {"SET_ADD", 0},
	OpMapAdd:           {"MAP_ADD", 0},
	OpBuildConstKeyMap: {"BUILD_CONST_KEY_MAP", 0},
	OpBuildString:      {"BUILD_STRING", 0},
	OpListExtend:       {"LIST_EXTEND", 0},
	OpSetUpdate:        {"SET_UPDATE", 0},
	OpDictMerge:        {"DICT_MERGE", 0},
	OpDictUpdate:       {"DICT_UPDATE", 0},

	// Iteration and unpacking
	OpGetLen:           {"GET_LEN", 0},
	OpGetIter:          {"GET_ITER", 0},
	OpGetYieldFromIter: {"GET_YIELD_FROM_ITER", 0},
	OpUnpackSequence:   {"UNPACK_SEQUENCE", 1},
	OpForIter:          {"FOR_ITER", 0},
	OpUnpackEx:         {"UNPACK_EX", 0},

	// Jumps
	OpJumpForward:              {"JUMP_FORWARD", 0},
	OpJumpIfFalseOrPop:         {"JUMP_IF_FALSE_OR_POP", 0},
	OpJumpIfTrueOrPop:          {"JUMP_IF_TRUE_OR_POP", 0},
	OpPopJumpForwardIfFalse:    {"POP_JUMP_FORWARD_IF_FALSE", 0},
	OpPopJumpForwardIfTrue:     {"POP_JUMP_FORWARD_IF_TRUE", 0},
	OpPopJumpForwardIfNotNone:  {"POP_JUMP_FORWARD_IF_NOT_NONE", 0},
	OpPopJumpForwardIfNone:     {"POP_JUMP_FORWARD_IF_NONE", 0},
	OpJumpBackwardNoInterrupt:  {"JUMP_BACKWARD_NO_INTERRUPT", 0},
	OpJumpBackward:             {"JUMP_BACKWARD", 0},
	OpPopJumpBackwardIfNotNone: {"POP_JUMP_BACKWARD_IF_NOT_NONE", 0},
	OpPopJumpBackwardIfNone:    {"POP_JUMP_BACKWARD_IF_NONE", 0},
	OpPopJumpBackwardIfFalse:   {"POP_JUMP_BACKWARD_IF_FALSE", 0},
	OpPopJumpBackwardIfTrue:    {"POP_JUMP_BACKWARD_IF_TRUE", 0},

	// Calls and functions
	OpReturnValue:     {"RETURN_VALUE", 0},
	OpReturnGenerator: {"RETURN_GENERATOR", 0},
	OpYieldValue:      {"YIELD_VALUE", 0},
	OpResume:          {"RESUME", 0},
	OpSend:            {"SEND", 0},
	OpGetAwaitable:    {"GET_AWAITABLE", 0},
	OpAsyncGenWrap:    {"ASYNC_GEN_WRAP", 0},
	OpMakeFunction:    {"MAKE_FUNCTION", 0},
	OpCallFunctionEx:  {"CALL_FUNCTION_EX", 0},
	OpLoadMethod:      {"LOAD_METHOD", 10},
	OpPrecall:         {"PRECALL", 1},
	OpCall:            {"CALL", 4},
	OpKwNames:         {"KW_NAMES", 0},

	// Exception handling
	OpPushExcInfo:        {"PUSH_EXC_INFO", 0},
	OpCheckExcMatch:      {"CHECK_EXC_MATCH", 0},
	OpCheckEgMatch:       {"CHECK_EG_MATCH", 0},
	OpWithExceptStart:    {"WITH_EXCEPT_START", 0},
	OpLoadAssertionError: {"LOAD_ASSERTION_ERROR", 0},
	OpPopExcept:          {"POP_EXCEPT", 0},
	OpRaiseVarargs:       {"RAISE_VARARGS", 0},
	OpReraise:            {"RERAISE", 0},
	OpPrepReraiseStar:    {"PREP_RERAISE_STAR", 0},

	// Context managers and async
	OpBeforeWith:      {"BEFORE_WITH", 0},
	OpBeforeAsyncWith: {"BEFORE_ASYNC_WITH", 0},
	OpGetAiter:        {"GET_AITER", 0},
	OpGetAnext:        {"GET_ANEXT", 0},
	OpEndAsyncFor:     {"END_ASYNC_FOR", 0},

	// Pattern matching
	OpMatchMapping:  {"MATCH_MAPPING", 0},
	OpMatchSequence: {"MATCH_SEQUENCE", 0},
	OpMatchKeys:     {"MATCH_KEYS", 0},
	OpMatchClass:    {"MATCH_CLASS", 0},

	// Miscellaneous
	OpPrintExpr:        {"PRINT_EXPR", 0},
	OpLoadBuildClass:   {"LOAD_BUILD_CLASS", 0},
	OpSetupAnnotations: {"SETUP_ANNOTATIONS", 0},
	OpFormatValue:      {"FORMAT_VALUE", 0},
	OpExtendedArg:      {"EXTENDED_ARG", 0},
}

// opcodeByName is the mnemonic -> opcode index, derived from opcodeTable.
var opcodeByName = make(map[string]Opcode, len(opcodeTable))

func init() {
	for op, info := range opcodeTable {
		opcodeByName[info.Name] = op
	}
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", int(op))}
}

// Name returns the canonical mnemonic for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// Caches returns the number of inline cache entries that follow the
// instruction. Each entry occupies two bytes of zero padding.
func (op Opcode) Caches() int {
	return op.Info().Caches
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}

// OpcodeByName resolves a mnemonic to its opcode.
func OpcodeByName(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}
