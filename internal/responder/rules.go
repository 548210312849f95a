package responder

const (
	analysisReply = "📊 Database Analysis Complete\n\n" +
		"Total Tables: 12\n" +
		"Total Records: 45,230\n" +
		"Database Size: 128 MB\n" +
		"Last Updated: 2 hours ago\n\n" +
		"Your database is healthy and well-structured. Ask about any table for a detailed breakdown."

	queryReply = "Here's an example query for your data:\n\n" +
		"SELECT customers.name, COUNT(orders.id) AS total_orders\n" +
		"FROM customers\n" +
		"JOIN orders ON orders.customer_id = customers.id\n" +
		"GROUP BY customers.name\n" +
		"ORDER BY total_orders DESC\n" +
		"LIMIT 10;\n\n" +
		"This returns your top 10 customers by order volume."

	schemaReply = "Your database contains the following tables:\n\n" +
		"• users (8 columns)\n" +
		"• orders (12 columns)\n" +
		"• products (10 columns)\n" +
		"• categories (4 columns)\n\n" +
		"Ask about any table to see its columns and indexes."

	performanceReply = "⚡ Performance Check\n\n" +
		"Average query time: 23 ms\n" +
		"Slow queries (>1s): 3\n" +
		"Index coverage: 87%\n\n" +
		"Consider adding an index on orders.created_at to speed up your most frequent range scans."

	chartReply = "I can describe several visualizations for your data: bar charts for sales " +
		"by category, line charts for revenue over time, and pie charts for customer segments. " +
		"Which one would you like to explore?"

	exportReply = "Your data can be exported in CSV, JSON, or SQL dump format. " +
		"Pick a table and a format and I'll prepare the export."

	greetingReply = "Hello! I'm your database assistant. Ask me to analyze your database, " +
		"write a query, or check performance."

	fallbackTemplate = "I understand you're asking about %q. I can help with database analysis, " +
		"SQL queries, table structure, performance, visualization, and exports. " +
		"Try one of the quick actions below!"
)

// defaultRules returns the canned rule table in evaluation order.
// Order is significant: the first matching rule wins.
func defaultRules() []Rule {
	return []Rule{
		{Name: "analysis", Match: ContainsAny("database", "analyze"), Template: analysisReply},
		{Name: "query", Match: ContainsAny("query", "sql"), Template: queryReply},
		{Name: "schema", Match: ContainsAny("structure", "schema"), Template: schemaReply},
		{Name: "performance", Match: ContainsAny("performance", "optimize"), Template: performanceReply},
		{Name: "visualization", Match: ContainsAny("visualization", "chart"), Template: chartReply},
		{Name: "export", Match: ContainsAny("export", "download"), Template: exportReply},
		{Name: "greeting", Match: HasAnyWord("hello", "hi", "hey"), Template: greetingReply},
	}
}

// QuickAction is a shortcut label the chat page renders as a button.
// Activating one submits its label verbatim.
type QuickAction struct {
	Label string `json:"label"`
}

// QuickActions returns the fixed shortcut catalog.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "Analyze Database"},
		{Label: "Show Table Structure"},
		{Label: "Performance Analysis"},
		{Label: "Export Data"},
	}
}
