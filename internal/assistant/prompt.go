package assistant

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

const notSpecified = "Not specified"

var taskSteps = []string{
	"Assess how the economic, political and environmental conditions affect supply and demand for this store.",
	"Identify items that are critically low or running low.",
	"Use the store type and location to judge demand. Only order items that are needed urgently.",
	"Find nearby main stores that can fulfil the order efficiently.",
	"Recommend order quantities with a justification for each.",
	"Scale urgency and safety stock to the conditions, e.g. larger buffers under high political instability.",
	"Do not source from locations where the conditions make delivery unsafe.",
}

var deliverables = []string{
	"Priority items to order and suggested quantities",
	"Reasoning based on current conditions",
	"Recommended main store for fulfillment",
	"Total estimated cost and delivery timeline",
	"Risk assessment and mitigation strategies",
}

// BuildPrompt renders the analysis request for a store. The output depends
// only on the record, so equal records always yield equal prompts.
func BuildPrompt(rec stores.StoreRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the store %q and create an order recommendation.\n", rec.Name)
	b.WriteString("The store may be a main store or a subordinate store; take that into account. Keep tool calls to a minimum.\n\n")

	b.WriteString("STORE DETAILS:\n")
	fmt.Fprintf(&b, "- Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "- Type: %s\n", rec.StoreType)
	fmt.Fprintf(&b, "- Location: %s\n", rec.Address)
	fmt.Fprintf(&b, "- Active Status: %s\n\n", activeLabel(rec.IsActive))

	b.WriteString("CURRENT CONDITIONS:\n")
	b.WriteString(ConditionLine("Economic Conditions", rec.EconomicConditions, rec.EconomicNotes) + "\n")
	b.WriteString(ConditionLine("Political Instability", rec.PoliticalInstability, rec.PoliticalNotes) + "\n")
	b.WriteString(ConditionLine("Environmental Issues", rec.EnvironmentalIssues, rec.EnvironmentalNotes) + "\n\n")

	b.WriteString("CURRENT INVENTORY STATUS:\n")
	for _, item := range rec.Items {
		b.WriteString(StockLine(item) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("TASK:\n")
	for i, step := range taskSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\nPlease provide:\n")
	for _, d := range deliverables {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nWork step by step using the available tools to gather current system data and create the order.\n")
	return b.String()
}

// StockLine renders one inventory row, e.g. "- Milk: 10/100 L (10% - CRITICALLY LOW)".
func StockLine(item stores.InventoryItem) string {
	pct := item.StockPercent()
	return fmt.Sprintf("- %s: %d/%d %s (%d%% - %s)",
		item.Name, item.CurrentQuantity, item.MaxQuantity, item.Unit, pct, enums.StockStatusFor(pct))
}

// ConditionLine renders one condition rating with its optional note.
func ConditionLine(label string, level enums.ConditionLevel, notes string) string {
	value := string(level)
	if value == "" {
		value = notSpecified
	}
	line := fmt.Sprintf("- %s: %s", label, value)
	if strings.TrimSpace(notes) != "" {
		line += fmt.Sprintf(" (%s)", notes)
	}
	return line
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}
