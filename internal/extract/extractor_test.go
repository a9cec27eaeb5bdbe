package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testmig/internal/ast"
	"testmig/internal/symbols"
)

// locatorField attaches `field <name> = By.<strategy>(<value>)` under parent
// and returns the locator-constructor node.
func locatorField(t *testing.T, b *ast.Builder, parent *ast.Node, name, strategy, value string) *ast.Node {
	t.Helper()
	field, err := b.CreateNode(ast.TypeField, nil, parent)
	require.NoError(t, err)
	field.Name = name

	call, err := b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("By"),
		"member":    ast.StringValue(strategy),
	}, field)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.StringValue(value)}, call)
	require.NoError(t, err)
	return call
}

func TestPages(t *testing.T) {
	b := ast.NewBuilder()
	root, err := b.CreateNode(ast.TypeGeneric, nil, nil)
	require.NoError(t, err)

	login, err := b.CreateNode(ast.TypeSuite, nil, root)
	require.NoError(t, err)
	login.Name = "LoginPage"

	account, err := b.CreateNode(ast.TypeSuite, nil, root)
	require.NoError(t, err)
	account.Name = "AccountPage"

	tree, err := b.BuildTree(root, "java", "pages/LoginPage.java")
	require.NoError(t, err)

	pages := Pages(tree)
	require.Len(t, pages, 2)

	assert.Equal(t, KindPage, pages[0].Kind)
	assert.Equal(t, "LoginPage", pages[0].Name)
	assert.Equal(t, login.ID, pages[0].NodeID)
	assert.Equal(t, "pages/LoginPage.java", pages[0].File)

	assert.Equal(t, "AccountPage", pages[1].Name)
	assert.Equal(t, account.ID, pages[1].NodeID)
}

func TestLocators_DedupKeepsFirst(t *testing.T) {
	b := ast.NewBuilder()
	class, err := b.CreateNode(ast.TypeSuite, nil, nil)
	require.NoError(t, err)
	class.Name = "LoginPage"

	first := locatorField(t, b, class, "loginButton", "id", "login-btn")
	locatorField(t, b, class, "duplicateButton", "id", "login-btn")
	locatorField(t, b, class, "emailInput", "cssSelector", "input#email")

	tree, err := b.BuildTree(class, "java", "LoginPage.java")
	require.NoError(t, err)
	idx, err := ast.NewIndex(tree)
	require.NoError(t, err)

	locators := Locators(tree, idx)
	require.Len(t, locators, 2, "identical (strategy, value) pairs collapse to the first occurrence")

	assert.Equal(t, first.ID, locators[0].NodeID)
	assert.Equal(t, "loginButton", locators[0].Name)
	assert.Equal(t, "id", locators[0].Strategy)
	assert.Equal(t, "login-btn", locators[0].Value)
	assert.Equal(t, "LoginPage", locators[0].Page)
	assert.Equal(t, "LoginPage.java", locators[0].File)

	assert.Equal(t, "emailInput", locators[1].Name)
	assert.Equal(t, "cssSelector", locators[1].Strategy)
	assert.Equal(t, "input#email", locators[1].Value)
}

func TestLocators_AnonymousLocatorHasNoName(t *testing.T) {
	b := ast.NewBuilder()
	root, err := b.CreateNode(ast.TypeGeneric, nil, nil)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("By"),
		"member":    ast.StringValue("xpath"),
	}, root)
	require.NoError(t, err)

	tree, err := b.BuildTree(root, "java", "Inline.java")
	require.NoError(t, err)
	idx, err := ast.NewIndex(tree)
	require.NoError(t, err)

	locators := Locators(tree, idx)
	require.Len(t, locators, 1)
	assert.Empty(t, locators[0].Name)
	assert.Empty(t, locators[0].Page)
	assert.Empty(t, locators[0].Value)
}

func TestMapActions_UtilityFiltering(t *testing.T) {
	b := ast.NewBuilder()
	// driver.findElement(loginButton).sendKeys("x");
	stmt, err := b.CreateNode(ast.TypeGeneric, ast.Properties{"member": ast.StringValue("sendKeys")}, nil)
	require.NoError(t, err)
	lookup, err := b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("driver"),
		"member":    ast.StringValue("findElement"),
	}, stmt)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"name": ast.StringValue("loginButton")}, lookup)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.StringValue("x")}, stmt)
	require.NoError(t, err)

	steps := MapActions(stmt, symbols.NewTable(nil))
	require.Len(t, steps, 1, "findElement is utility plumbing, not a step")

	assert.Equal(t, StepAction, steps[0].Type)
	assert.Equal(t, "sendKeys", steps[0].Name)
	assert.Equal(t, "x", steps[0].Parameters["value"])
}

func TestMapActions_PageObjectCall(t *testing.T) {
	b := ast.NewBuilder()
	call, err := b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("loginPage"),
		"member":    ast.StringValue("enterEmail"),
	}, nil)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.StringValue("john@example.com")}, call)
	require.NoError(t, err)

	steps := MapActions(call, symbols.NewTable(nil))
	require.Len(t, steps, 1)

	assert.Equal(t, "enterEmail", steps[0].Name)
	assert.Equal(t, "emailInput", steps[0].TargetNameID)
	assert.Equal(t, call.ID, steps[0].TargetNodeID)
	assert.Equal(t, "john@example.com", steps[0].Parameters["value"])
}

func TestMapActions_InfrastructureCallsYieldNothing(t *testing.T) {
	table := symbols.NewTable(nil)

	quit := &ast.Node{ID: "node_1", Type: ast.TypeGeneric, Properties: ast.Properties{
		"qualifier": ast.StringValue("driver"),
		"member":    ast.StringValue("quit"),
	}}
	assert.Empty(t, MapActions(quit, table))

	until := &ast.Node{ID: "node_2", Type: ast.TypeGeneric, Properties: ast.Properties{
		"qualifier": ast.StringValue("wait"),
		"member":    ast.StringValue("until"),
	}}
	assert.Empty(t, MapActions(until, table))

	timeout := &ast.Node{ID: "node_3", Type: ast.TypeGeneric, Properties: ast.Properties{
		"qualifier": ast.StringValue("Duration"),
		"member":    ast.StringValue("ofSeconds"),
	}}
	assert.Empty(t, MapActions(timeout, table))
}

func TestMapAssertions_DedupePerStatement(t *testing.T) {
	b := ast.NewBuilder()
	stmt, err := b.CreateNode(ast.TypeGeneric, nil, nil)
	require.NoError(t, err)
	for _, member := range []string{"assertEquals", "assertEquals", "assertTrue"} {
		_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"member": ast.StringValue(member)}, stmt)
		require.NoError(t, err)
	}

	steps := MapAssertions(stmt)
	require.Len(t, steps, 2)

	assert.Equal(t, StepAssertion, steps[0].Type)
	assert.Equal(t, "assertEquals", steps[0].Name)
	assert.Equal(t, "assertTrue", steps[1].Name)
}

func TestExtract_AssemblesPerFileResult(t *testing.T) {
	b := ast.NewBuilder()
	class, err := b.CreateNode(ast.TypeSuite, nil, nil)
	require.NoError(t, err)
	class.Name = "LoginTest"

	test, err := b.CreateNode(ast.TypeTest, nil, class)
	require.NoError(t, err)
	test.Name = "testLogin"

	// loginPage.enterEmail("john@example.com");
	enter, err := b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("loginPage"),
		"member":    ast.StringValue("enterEmail"),
	}, test)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.StringValue("john@example.com")}, enter)
	require.NoError(t, err)

	// assertTrue(loginPage.isSuccessMessageDisplayed());
	check, err := b.CreateNode(ast.TypeGeneric, ast.Properties{"member": ast.StringValue("assertTrue")}, test)
	require.NoError(t, err)
	_, err = b.CreateNode(ast.TypeGeneric, ast.Properties{
		"qualifier": ast.StringValue("loginPage"),
		"member":    ast.StringValue("isSuccessMessageDisplayed"),
	}, check)
	require.NoError(t, err)

	tree, err := b.BuildTree(class, "java", "LoginTest.java")
	require.NoError(t, err)

	result, err := Extract(tree, "ecommerce-qa", "java")
	require.NoError(t, err)

	assert.Equal(t, "ecommerce-qa", result.ProjectName)
	assert.Equal(t, "java", result.SourceLanguage)
	assert.Empty(t, result.Environments)
	assert.NotNil(t, result.Environments, "keys stay present even when empty")

	require.Len(t, result.Suites, 1)
	assert.Equal(t, "LoginTest", result.Suites[0].Name)
	assert.Equal(t, []string{"testLogin"}, result.Suites[0].Tests)

	require.Len(t, result.Tests, 1)
	steps := result.Tests[0].Steps
	require.Len(t, steps, 3, "a statement may yield several steps")

	assert.Equal(t, StepAction, steps[0].Type)
	assert.Equal(t, "enterEmail", steps[0].Name)
	assert.Equal(t, "emailInput", steps[0].TargetNameID)

	assert.Equal(t, StepAction, steps[1].Type)
	assert.Equal(t, "isSuccessMessageDisplayed", steps[1].Name)

	assert.Equal(t, StepAssertion, steps[2].Type)
	assert.Equal(t, "assertTrue", steps[2].Name)

	// The class itself is a page-kind target; no locators declared here.
	require.Len(t, result.Targets, 1)
	assert.Equal(t, KindPage, result.Targets[0].Kind)
	assert.Equal(t, "LoginTest", result.Targets[0].Name)
}

func TestExtract_NilTree(t *testing.T) {
	_, err := Extract(nil, "p", "java")
	require.Error(t, err)
}
