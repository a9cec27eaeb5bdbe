package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testmig/internal/ast"
)

func parseFixture(t *testing.T, path string) *ast.Tree {
	t.Helper()
	tree, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	return tree
}

func childByName(t *testing.T, parent *ast.Node, name string) *ast.Node {
	t.Helper()
	for _, c := range parent.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no child named %s under %s", name, parent.ID)
	return nil
}

func TestAdapter_PageObjectStructure(t *testing.T) {
	tree := parseFixture(t, "testdata/LoginPage.java")

	assert.Equal(t, "java", tree.Language)
	assert.Equal(t, "testdata/LoginPage.java", tree.FilePath)

	// Package and import declarations carry no extraction signal and are
	// dropped, leaving the class as the only top-level child.
	require.Len(t, tree.Root.Children, 1)
	suite := tree.Root.Children[0]
	assert.Equal(t, ast.TypeSuite, suite.Type)
	assert.Equal(t, "LoginPage", suite.Name)
	assert.Equal(t, "LoginPage", suite.PropertyString("name"))
	require.NotNil(t, suite.Location)
	assert.Equal(t, 6, suite.Location.StartLine)

	fields := 0
	for _, c := range suite.Children {
		if c.Type == ast.TypeField {
			fields++
		}
	}
	assert.Equal(t, 8, fields)

	driver := childByName(t, suite, "driver")
	assert.Equal(t, ast.TypeField, driver.Type)
	assert.Empty(t, driver.Children)

	email := childByName(t, suite, "emailInput")
	assert.Equal(t, ast.TypeField, email.Type)
	require.NotNil(t, email.Location)
	assert.Equal(t, 9, email.Location.StartLine)
	require.Len(t, email.Children, 1)

	locator := email.Children[0]
	assert.Equal(t, ast.TypeGeneric, locator.Type)
	assert.Equal(t, "By", locator.PropertyString("qualifier"))
	assert.Equal(t, "id", locator.PropertyString("member"))
	require.Len(t, locator.Children, 1)
	value, ok := locator.Children[0].Property("value")
	require.True(t, ok)
	assert.Equal(t, ast.KindString, value.Kind())
	assert.Equal(t, "email", value.AsString())
}

func TestAdapter_MethodAndCallChain(t *testing.T) {
	tree := parseFixture(t, "testdata/LoginPage.java")
	suite := tree.Root.Children[0]

	enter := childByName(t, suite, "enterEmail")
	assert.Equal(t, ast.TypeGeneric, enter.Type)
	assert.Equal(t, "method", enter.Metadata["kind"])
	require.Len(t, enter.Children, 2)

	param := enter.Children[0]
	assert.Equal(t, ast.TypeParameter, param.Type)
	assert.Equal(t, "email", param.Name)

	// driver.findElement(emailInput).sendKeys(email): the chained receiver
	// becomes a child of the unqualified outer call.
	send := enter.Children[1]
	assert.Equal(t, "sendKeys", send.PropertyString("member"))
	assert.False(t, send.HasProperty("qualifier"))
	require.Len(t, send.Children, 2)

	find := send.Children[0]
	assert.Equal(t, "findElement", find.PropertyString("member"))
	assert.Equal(t, "driver", find.PropertyString("qualifier"))
	require.Len(t, find.Children, 1)
	assert.Equal(t, "emailInput", find.Children[0].PropertyString("name"))

	assert.Equal(t, "email", send.Children[1].PropertyString("name"))
}

func TestAdapter_ConstructorBecomesMethodNode(t *testing.T) {
	tree := parseFixture(t, "testdata/LoginPage.java")
	suite := tree.Root.Children[0]

	ctor := childByName(t, suite, "LoginPage")
	assert.Equal(t, ast.TypeGeneric, ctor.Type)
	assert.Equal(t, "method", ctor.Metadata["kind"])
	require.NotEmpty(t, ctor.Children)
	assert.Equal(t, ast.TypeParameter, ctor.Children[0].Type)
	assert.Equal(t, "driver", ctor.Children[0].Name)
}

func TestAdapter_TestClassStructure(t *testing.T) {
	tree := parseFixture(t, "testdata/LoginTest.java")
	suite := tree.Root.Children[0]
	assert.Equal(t, "LoginTest", suite.Name)

	var tests []*ast.Node
	for _, c := range suite.Children {
		if c.Type == ast.TypeTest {
			tests = append(tests, c)
		}
	}
	require.Len(t, tests, 3)
	assert.Equal(t, "testValidLogin", tests[0].Name)
	assert.Equal(t, "testInvalidPassword", tests[1].Name)
	assert.Equal(t, "testRememberMe", tests[2].Name)

	setUp := childByName(t, suite, "setUp")
	assert.Equal(t, ast.TypeGeneric, setUp.Type)
	assert.Equal(t, "method", setUp.Metadata["kind"])
	assert.Len(t, setUp.Children, 3)

	valid := tests[0]
	require.Len(t, valid.Children, 4)

	first := valid.Children[0]
	assert.Equal(t, "enterEmail", first.PropertyString("member"))
	assert.Equal(t, "loginPage", first.PropertyString("qualifier"))
	require.Len(t, first.Children, 1)
	value, ok := first.Children[0].Property("value")
	require.True(t, ok)
	assert.Equal(t, "john@example.com", value.AsString())

	last := valid.Children[3]
	assert.Equal(t, "assertTrue", last.PropertyString("member"))
	assert.False(t, last.HasProperty("qualifier"))
	require.Len(t, last.Children, 1)
	inner := last.Children[0]
	assert.Equal(t, "isSuccessMessageDisplayed", inner.PropertyString("member"))
	assert.Equal(t, "loginPage", inner.PropertyString("qualifier"))
}

func TestAdapter_LiteralKinds(t *testing.T) {
	source := []byte(`
public class T {
    void m() {
        configure(1_000, 2.5f, true, 'x');
    }
}
`)
	tree, err := NewParser().Parse("T.java", source)
	require.NoError(t, err)

	suite := tree.Root.Children[0]
	method := childByName(t, suite, "m")
	require.Len(t, method.Children, 1)
	call := method.Children[0]
	require.Len(t, call.Children, 4)

	intVal, _ := call.Children[0].Property("value")
	assert.Equal(t, ast.KindInt, intVal.Kind())
	assert.Equal(t, int64(1000), intVal.AsInt())

	floatVal, _ := call.Children[1].Property("value")
	assert.Equal(t, ast.KindFloat, floatVal.Kind())
	assert.Equal(t, 2.5, floatVal.AsFloat())

	boolVal, _ := call.Children[2].Property("value")
	assert.Equal(t, ast.KindBool, boolVal.Kind())
	assert.True(t, boolVal.AsBool())

	charVal, _ := call.Children[3].Property("value")
	assert.Equal(t, ast.KindString, charVal.Kind())
	assert.Equal(t, "x", charVal.AsString())
}

func TestAdapter_DeterministicIDs(t *testing.T) {
	collect := func() []string {
		tree := parseFixture(t, "testdata/CheckoutPage.java")
		var ids []string
		tree.Walk(func(n *ast.Node) { ids = append(ids, n.ID) })
		return ids
	}

	assert.Equal(t, collect(), collect())
}
