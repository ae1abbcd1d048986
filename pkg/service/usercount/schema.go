package usercount

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// ValidateDocument checks that document is a valid operation against the
// schema and that it reads userCount with a nullable String $name argument
func ValidateDocument(schemaName, schemaSDL, document string) error {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: schemaName, Input: schemaSDL})
	if err != nil {
		return goerr.Wrap(err, "failed to load GraphQL schema", goerr.V("schema", schemaName))
	}

	doc, errs := gqlparser.LoadQuery(schema, document)
	if len(errs) > 0 {
		return goerr.Wrap(errs, "query document does not match schema", goerr.V("schema", schemaName))
	}

	if len(doc.Operations) != 1 {
		return goerr.New("query document must contain exactly one operation",
			goerr.V("operations", len(doc.Operations)))
	}
	op := doc.Operations[0]
	if op.Operation != ast.Query {
		return goerr.New("operation must be a query", goerr.V("operation", op.Operation))
	}

	nameVar := op.VariableDefinitions.ForName("name")
	if nameVar == nil {
		return goerr.New("query must declare $name")
	}
	if nameVar.Type.NonNull || nameVar.Type.Name() != "String" {
		return goerr.New("$name must be a nullable String", goerr.V("type", nameVar.Type.String()))
	}

	var field *ast.Field
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok && f.Name == "userCount" {
			field = f
		}
	}
	if field == nil {
		return goerr.New("query must select userCount")
	}
	arg := field.Arguments.ForName("name")
	if arg == nil || arg.Value.Kind != ast.Variable || arg.Value.Raw != "name" {
		return goerr.New("userCount must receive $name as its name argument")
	}

	return nil
}
