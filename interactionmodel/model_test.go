package interactionmodel_test

import (
	"strings"
	"testing"

	"github.com/convkit/controls/control"
	"github.com/convkit/controls/interactionmodel"
)

func TestBuildContribution(t *testing.T) {
	t.Parallel()
	cfg := control.NewConfig("GroceryItem",
		control.WithChoices("apples", "bananas"),
		control.WithAddActions("add", "buy"),
		control.WithTargets("list"),
	)

	c := interactionmodel.Build(cfg)
	if c.Catalog != "GroceryItem" {
		t.Errorf("catalog = %q", c.Catalog)
	}
	if len(c.Intents) != 2 ||
		c.Intents[0].Name != interactionmodel.IntentMultiValue ||
		c.Intents[1].Name != interactionmodel.IntentFeedback {
		t.Errorf("unexpected intents: %+v", c.Intents)
	}
	found := false
	for _, slot := range c.Intents[0].Slots {
		if slot == "GroceryItem" {
			found = true
		}
	}
	if !found {
		t.Errorf("multi-value intent should carry a catalog slot: %v", c.Intents[0].Slots)
	}
	hasBuy := false
	for _, a := range c.Actions {
		if a == "buy" {
			hasBuy = true
		}
	}
	if !hasBuy {
		t.Errorf("configured action vocabulary missing from contribution: %v", c.Actions)
	}
	if len(c.Targets) != 1 || c.Targets[0] != "list" {
		t.Errorf("unexpected targets: %v", c.Targets)
	}
	if len(c.Choices) != 2 {
		t.Errorf("unexpected choices: %v", c.Choices)
	}
}

func TestContributionEncode(t *testing.T) {
	t.Parallel()
	c := interactionmodel.Build(control.NewConfig("GroceryItem"))

	raw, err := c.Encode()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"catalog":"GroceryItem"`, interactionmodel.IntentMultiValue} {
		if !strings.Contains(raw, want) {
			t.Errorf("encoded contribution missing %q:\n%s", want, raw)
		}
	}
}

func TestInputSchema(t *testing.T) {
	t.Parallel()
	schema, err := interactionmodel.InputSchema()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"action", "values", "feedback", "catalog_type"} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing field %q", want)
		}
	}
}
