package hir

import (
	"strconv"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/syntax"
)

// StructField is one field of a struct or enum variant. Tuple fields get
// positional names ("0", "1", ...).
type StructField struct {
	Name Name
	Type TypeRef
}

// StructData is the signature-level shape of a struct or union.
type StructData struct {
	Name   Name
	Fields []StructField
}

// EnumVariantData is one variant of an enum, with its payload fields.
type EnumVariantData struct {
	Name   Name
	Fields []StructField
}

// EnumData is the signature-level shape of an enum.
type EnumData struct {
	Name     Name
	Variants []EnumVariantData
}

// LowerStructData extracts a struct's name and fields from its syntax.
// Unit structs get no fields; malformed ones keep the missing-name
// placeholder.
func LowerStructData(tree *syntax.Tree, node *sitter.Node) *StructData {
	data := &StructData{Name: MissingName()}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		data.Name = Name(tree.Text(nameNode))
	}
	if body := node.ChildByFieldName("body"); body != nil {
		data.Fields = lowerFields(tree, body)
	}
	return data
}

// LowerEnumData extracts an enum's name and variants from its syntax.
func LowerEnumData(tree *syntax.Tree, node *sitter.Node) *EnumData {
	data := &EnumData{Name: MissingName()}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		data.Name = Name(tree.Text(nameNode))
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return data
	}
	for _, variantNode := range syntax.ChildrenOfKind(body, syntax.KindEnumVariant) {
		variant := EnumVariantData{Name: MissingName()}
		if nameNode := variantNode.ChildByFieldName("name"); nameNode != nil {
			variant.Name = Name(tree.Text(nameNode))
		}
		if variantBody := variantNode.ChildByFieldName("body"); variantBody != nil {
			variant.Fields = lowerFields(tree, variantBody)
		}
		data.Variants = append(data.Variants, variant)
	}
	return data
}

// lowerFields handles both record bodies (field_declaration_list) and
// tuple bodies (ordered_field_declaration_list).
func lowerFields(tree *syntax.Tree, body *sitter.Node) []StructField {
	var fields []StructField
	switch body.Kind() {
	case syntax.KindFieldDeclList:
		for _, decl := range syntax.ChildrenOfKind(body, syntax.KindFieldDecl) {
			field := StructField{Name: MissingName(), Type: PlaceholderTypeRef()}
			if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
				field.Name = Name(tree.Text(nameNode))
			}
			if typeNode := decl.ChildByFieldName("type"); typeNode != nil {
				field.Type = TypeRef{Text: tree.Text(typeNode)}
			}
			fields = append(fields, field)
		}
	case syntax.KindOrderedFieldDeclList:
		pos := 0
		for _, child := range syntax.NamedChildren(body) {
			if child.Kind() == "visibility_modifier" || child.Kind() == "attribute_item" {
				continue
			}
			fields = append(fields, StructField{
				Name: Name(strconv.Itoa(pos)),
				Type: TypeRef{Text: tree.Text(child)},
			})
			pos++
		}
	}
	return fields
}
