package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testmig/internal/extract"
)

func TestDeterministicID(t *testing.T) {
	id := DeterministicID("test::testLogin")

	assert.Len(t, id, 12)
	assert.Regexp(t, "^[0-9a-f]{12}$", id)
	assert.Equal(t, id, DeterministicID("test::testLogin"))
	assert.NotEqual(t, id, DeterministicID("test::testLogout"))
}

func TestIDNamespaces(t *testing.T) {
	assert.NotEqual(t, SuiteID("Login"), TestID("Login"))
	assert.NotEqual(t, TestID("Login"), TargetID("page", "Login"))
	assert.NotEqual(t, TargetID("page", "Login"), TargetID("locator", "Login"))
	assert.NotEqual(t, EnvironmentID("staging"), DataID("staging"))
}

func TestStepID_IndexKeepsRepeatsDistinct(t *testing.T) {
	testID := TestID("testLogin")

	assert.NotEqual(t, StepID(testID, 0, "click"), StepID(testID, 1, "click"))
	assert.Equal(t, StepID(testID, 0, "click"), StepID(testID, 0, "click"))
}

func TestBuildProject(t *testing.T) {
	generatedAt := time.Date(2026, 2, 12, 10, 30, 0, 0, time.UTC)

	project := BuildProject("shop-tests", "java", []string{"testLogin"}, []string{"LoginTest"}, nil, generatedAt)

	assert.Equal(t, ProjectID("shop-tests"), project.ID)
	assert.Equal(t, SchemaVersion, project.SchemaVersion)
	assert.Equal(t, "shop-tests", project.Metadata.Name)
	assert.Equal(t, "1.0.0", project.Metadata.Version)
	assert.Equal(t, "2026-02-12T10:30:00Z", project.Metadata.GeneratedAt)
	assert.Equal(t, "java", project.Metadata.SourceLanguage)
	assert.Equal(t, CompilerVersion, project.Metadata.CompilerVersion)
	assert.Equal(t, []string{"testLogin"}, project.Tests)
	assert.Equal(t, []string{"LoginTest"}, project.Suites)
	assert.NotNil(t, project.Environments)
	assert.Empty(t, project.Environments)
}

func TestBuildSuite_MapsTestNamesToIDs(t *testing.T) {
	suite := BuildSuite(extract.SuiteRecord{
		Name:  "LoginTest",
		Tests: []string{"testLogin", "testLogout"},
	})

	assert.Equal(t, SuiteID("LoginTest"), suite.ID)
	assert.Equal(t, "LoginTest", suite.Name)
	assert.Nil(t, suite.ParentID)
	assert.Equal(t, []string{TestID("testLogin"), TestID("testLogout")}, suite.Tests)
}

func TestBuildSuite_ParentID(t *testing.T) {
	suite := BuildSuite(extract.SuiteRecord{Name: "SmokeTests", ParentID: "suite_1"})

	require.NotNil(t, suite.ParentID)
	assert.Equal(t, "suite_1", *suite.ParentID)
}

func TestBuildTest_StepIdentityAndTargetLinking(t *testing.T) {
	nameIndex := map[string]string{"emailInput": TargetID("locator", "emailInput")}

	test := BuildTest(extract.TestRecord{
		Name: "testLogin",
		Steps: []extract.StepRecord{
			{Type: extract.StepAction, Name: "click", TargetNameID: "emailInput", TargetNodeID: "node_4"},
			{Type: extract.StepAction, Name: "click", TargetNameID: "missingButton"},
			{Type: extract.StepAssertion, Name: "assertTrue"},
		},
	}, SuiteID("LoginTest"), nameIndex)

	require.Len(t, test.Steps, 3)
	assert.Equal(t, TestID("testLogin"), test.ID)
	require.NotNil(t, test.SuiteID)
	assert.Equal(t, SuiteID("LoginTest"), *test.SuiteID)
	assert.Nil(t, test.EnvironmentID)
	assert.Nil(t, test.DataID)

	first, second, third := test.Steps[0], test.Steps[1], test.Steps[2]

	assert.NotEqual(t, first.ID, second.ID)
	require.NotNil(t, first.TargetID)
	assert.Equal(t, TargetID("locator", "emailInput"), *first.TargetID)
	require.NotNil(t, first.TargetNameID)
	assert.Equal(t, "emailInput", *first.TargetNameID)
	require.NotNil(t, first.TargetNodeID)
	assert.Equal(t, "node_4", *first.TargetNodeID)

	assert.Nil(t, second.TargetID)
	require.NotNil(t, second.TargetNameID)
	assert.Equal(t, "missingButton", *second.TargetNameID)

	assert.Nil(t, third.TargetID)
	assert.Nil(t, third.TargetNameID)
	assert.NotNil(t, third.Parameters)
}

func TestBuildTest_EnvironmentAndDataReferences(t *testing.T) {
	test := BuildTest(extract.TestRecord{
		Name:          "testCheckout",
		Tags:          []string{"smoke"},
		EnvironmentID: EnvironmentID("staging"),
		DataID:        DataID("checkout"),
	}, "", nil)

	assert.Nil(t, test.SuiteID)
	require.NotNil(t, test.EnvironmentID)
	assert.Equal(t, EnvironmentID("staging"), *test.EnvironmentID)
	require.NotNil(t, test.DataID)
	assert.Equal(t, DataID("checkout"), *test.DataID)
	assert.Equal(t, []string{"smoke"}, test.Tags)
	assert.NotNil(t, test.Steps)
}

func TestBuildTargets_LocatorRecord(t *testing.T) {
	targets := BuildTargets([]extract.TargetRecord{{
		Kind:     extract.KindLocator,
		NodeID:   "node_7",
		Name:     "emailInput",
		Strategy: "id",
		Value:    "email",
		Page:     "LoginPage",
		File:     "LoginPage.java",
	}})

	require.Len(t, targets, 1)
	target := targets[0]

	assert.Equal(t, TargetID("locator", "emailInput"), target.ID)
	assert.Equal(t, "emailInput", target.Name)
	assert.Equal(t, "locator", target.Type)
	require.NotNil(t, target.Context.Page)
	assert.Equal(t, "LoginPage", *target.Context.Page)
	assert.Nil(t, target.Context.Component)
	assert.Equal(t, "textbox", target.Semantic.Role)
	assert.Equal(t, "Email Input", target.Semantic.BusinessName)
	require.Len(t, target.SelectorStrategies, 1)
	assert.Equal(t, SelectorStrategy{Strategy: "id", Value: "email", StabilityScore: 0.95}, target.SelectorStrategies[0])
	assert.Equal(t, "id", target.PreferredStrategy)
	assert.Equal(t, "LoginPage.java", target.Metadata["file_path"])
	assert.Equal(t, "node_7", target.Metadata["id"])
}

func TestBuildTargets_PageRecord(t *testing.T) {
	targets := BuildTargets([]extract.TargetRecord{{
		Kind:   extract.KindPage,
		NodeID: "suite_1",
		Name:   "LoginPage",
		File:   "LoginPage.java",
	}})

	require.Len(t, targets, 1)
	target := targets[0]

	assert.Equal(t, "page", target.Type)
	assert.Equal(t, "page", target.Semantic.Role)
	assert.Equal(t, "Login Page", target.Semantic.BusinessName)
	assert.Empty(t, target.SelectorStrategies)
	assert.Equal(t, "", target.PreferredStrategy)
	assert.Nil(t, target.Context.Page)
}

func TestBuildTargets_AnonymousLocatorFallsBackToNodeID(t *testing.T) {
	targets := BuildTargets([]extract.TargetRecord{{
		Kind:     extract.KindLocator,
		NodeID:   "node_12",
		Strategy: "xpath",
		Value:    "//div[2]/button",
		File:     "CheckoutTest.java",
	}})

	require.Len(t, targets, 1)
	assert.Equal(t, "node_12", targets[0].Name)
	assert.Equal(t, TargetID("locator", "node_12"), targets[0].ID)
}

func TestBuildTargets_ValueFallsBackToStrategy(t *testing.T) {
	targets := BuildTargets([]extract.TargetRecord{{
		Kind:     extract.KindLocator,
		NodeID:   "node_3",
		Name:     "submitButton",
		Strategy: "id",
		File:     "LoginPage.java",
	}})

	require.Len(t, targets, 1)
	require.Len(t, targets[0].SelectorStrategies, 1)
	assert.Equal(t, "id", targets[0].SelectorStrategies[0].Value)
}

func TestBuildTargets_BlankKindBecomesUnknown(t *testing.T) {
	targets := BuildTargets([]extract.TargetRecord{{NodeID: "node_1", Name: "mystery"}})

	require.Len(t, targets, 1)
	assert.Equal(t, "unknown", targets[0].Type)
}

func TestTargetNameIndex_LastWins(t *testing.T) {
	index := TargetNameIndex([]TargetIR{
		{ID: "aaaaaaaaaaaa", Name: "loginButton"},
		{ID: "bbbbbbbbbbbb", Name: "loginButton"},
	})

	assert.Equal(t, "bbbbbbbbbbbb", index["loginButton"])
}

func TestBuildEnvironment(t *testing.T) {
	env := BuildEnvironment("staging", "https://staging.example.com", map[string]string{"TIMEOUT": "30"})

	assert.Equal(t, EnvironmentID("staging"), env.ID)
	require.NotNil(t, env.BaseURL)
	assert.Equal(t, "https://staging.example.com", *env.BaseURL)
	assert.Equal(t, "30", env.Variables["TIMEOUT"])

	bare := BuildEnvironment("local", "", nil)
	assert.Nil(t, bare.BaseURL)
	assert.NotNil(t, bare.Variables)
}

func TestBuildData(t *testing.T) {
	data := BuildData("checkout", map[string]interface{}{"zip": "94107"})

	assert.Equal(t, DataID("checkout"), data.ID)
	assert.Equal(t, "94107", data.Values["zip"])

	bare := BuildData("empty", nil)
	assert.NotNil(t, bare.Values)
}

func TestStabilityScore(t *testing.T) {
	longCSS := "#checkout > form > div.shipping-address > fieldset > div:nth-child(4) > label.required-field > input.form-control.address-line-two"

	cases := []struct {
		name     string
		strategy string
		value    string
		want     float64
	}{
		{"id is most stable", "id", "email", 0.95},
		{"css selector", "cssSelector", ".login-form input", 0.90},
		{"name attribute", "name", "cardNumber", 0.85},
		{"link text", "linkText", "Forgot password?", 0.75},
		{"xpath", "xpath", "//input[@id='email']", 0.50},
		{"xpath with positional index", "xpath", "//div[2]/button", 0.40},
		{"unknown strategy", "partialLinkText", "Forgot", 0.45},
		{"long selector penalty", "cssSelector", longCSS, 0.85},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StabilityScore(tc.strategy, tc.value))
		})
	}
}

func TestPreferredStrategy(t *testing.T) {
	strategies := []SelectorStrategy{
		{Strategy: "xpath", Value: "//input", StabilityScore: 0.50},
		{Strategy: "id", Value: "email", StabilityScore: 0.95},
	}

	assert.Equal(t, "id", PreferredStrategy(strategies))
	assert.Equal(t, "", PreferredStrategy(nil))
}

func TestInferRole(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"emailInput", "textbox"},
		{"loginButton", "button"},
		{"countrySelect", "combobox"},
		{"termsCheckbox", "checkbox"},
		{"forgotPasswordLink", "link"},
		{"paymentRadio", "radio"},
		{"successMessage", "element"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferRole(tc.name))
		})
	}
}

func TestBusinessName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"emailInput", "Email Input"},
		{"billingAsShippingCheckbox", "Billing As Shipping Checkbox"},
		{"LoginPage", "Login Page"},
		{"zip", "Zip"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BusinessName(tc.name))
		})
	}

	assert.Equal(t, "", BusinessName(""))
}
