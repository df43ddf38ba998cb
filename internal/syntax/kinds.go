package syntax

// Node kind names of the Rust grammar consumed by the analyzer core. The
// grammar distinguishes many more kinds; anything not listed here lowers
// to the Missing placeholder.
const (
	KindSourceFile = "source_file"

	// Items.
	KindFunctionItem    = "function_item"
	KindStructItem      = "struct_item"
	KindEnumItem        = "enum_item"
	KindUnionItem       = "union_item"
	KindConstItem       = "const_item"
	KindStaticItem      = "static_item"
	KindTypeItem        = "type_item"
	KindModItem         = "mod_item"
	KindImplItem        = "impl_item"
	KindTraitItem       = "trait_item"
	KindUseDeclaration  = "use_declaration"
	KindExternCrateDecl = "extern_crate_declaration"
	KindMacroInvocation = "macro_invocation"
	KindMacroDefinition = "macro_definition"
	KindDeclarationList = "declaration_list"

	// Function signature pieces.
	KindParameters           = "parameters"
	KindParameter            = "parameter"
	KindSelfParameter        = "self_parameter"
	KindSelf                 = "self"
	KindTokenTree            = "token_tree"
	KindFieldDeclList        = "field_declaration_list"
	KindFieldDecl            = "field_declaration"
	KindOrderedFieldDeclList = "ordered_field_declaration_list"
	KindEnumVariantList      = "enum_variant_list"
	KindEnumVariant          = "enum_variant"

	// Expressions.
	KindBlock             = "block"
	KindIfExpr            = "if_expression"
	KindLetCondition      = "let_condition"
	KindElseClause        = "else_clause"
	KindMatchExpr         = "match_expression"
	KindMatchBlock        = "match_block"
	KindMatchArm          = "match_arm"
	KindMatchPattern      = "match_pattern"
	KindLoopExpr          = "loop_expression"
	KindWhileExpr         = "while_expression"
	KindForExpr           = "for_expression"
	KindCallExpr          = "call_expression"
	KindArguments         = "arguments"
	KindFieldExpr         = "field_expression"
	KindStructExpr        = "struct_expression"
	KindFieldInitList     = "field_initializer_list"
	KindFieldInit         = "field_initializer"
	KindShorthandInit     = "shorthand_field_initializer"
	KindBaseFieldInit     = "base_field_initializer"
	KindTryExpr           = "try_expression"
	KindCastExpr          = "type_cast_expression"
	KindRefExpr           = "reference_expression"
	KindMutableSpecifier  = "mutable_specifier"
	KindUnaryExpr         = "unary_expression"
	KindBinaryExpr        = "binary_expression"
	KindClosureExpr       = "closure_expression"
	KindClosureParameters = "closure_parameters"
	KindReturnExpr        = "return_expression"
	KindBreakExpr         = "break_expression"
	KindContinueExpr      = "continue_expression"
	KindParenExpr         = "parenthesized_expression"
	KindExprStatement     = "expression_statement"
	KindLetDeclaration    = "let_declaration"

	// Path-like expressions.
	KindIdentifier       = "identifier"
	KindFieldIdentifier  = "field_identifier"
	KindTypeIdentifier   = "type_identifier"
	KindScopedIdentifier = "scoped_identifier"

	// Not yet modeled by the IR; these lower to Missing.
	KindIndexExpr = "index_expression"
	KindTupleExpr = "tuple_expression"
	KindArrayExpr = "array_expression"
	KindRangeExpr = "range_expression"
	KindLoopLabel = "loop_label"

	// Patterns.
	KindTupleStructPattern = "tuple_struct_pattern"
)

// itemKinds are the node kinds addressed by the per-file item arena.
var itemKinds = map[string]bool{
	KindFunctionItem:    true,
	KindStructItem:      true,
	KindEnumItem:        true,
	KindUnionItem:       true,
	KindConstItem:       true,
	KindStaticItem:      true,
	KindTypeItem:        true,
	KindModItem:         true,
	KindImplItem:        true,
	KindTraitItem:       true,
	KindUseDeclaration:  true,
	KindExternCrateDecl: true,
	KindMacroInvocation: true,
	KindMacroDefinition: true,
}

// IsItem reports whether kind is a declaration kind tracked by the item
// index.
func IsItem(kind string) bool {
	return itemKinds[kind]
}

// literal node kinds; the IR has no literal variant yet, they lower to
// Missing.
var literalKinds = map[string]bool{
	"integer_literal":    true,
	"float_literal":      true,
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"boolean_literal":    true,
}

func IsLiteral(kind string) bool {
	return literalKinds[kind]
}
