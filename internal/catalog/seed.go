package catalog

import (
	"context"
	"fmt"
	"time"

	"toolfinder-backend/internal/recommendations/engine"
)

func price(v float64) *float64 { return &v }

var seededAt = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

// DemoCatalog returns a small catalog spanning the common categories.
func DemoCatalog() []Tool {
	tool := func(id, name, category, desc string, model engine.PricingModel, start *float64, period string, rating float64, reviews int, features, tags, integrations []string) Tool {
		return Tool{
			ID:           id,
			Name:         name,
			Category:     category,
			Description:  desc,
			Features:     features,
			Tags:         tags,
			Pricing:      engine.Pricing{Model: model, StartingPrice: start, BillingPeriod: period},
			Rating:       rating,
			ReviewCount:  reviews,
			Integrations: integrations,
			LastUpdated:  seededAt,
		}
	}
	return []Tool{
		tool("vscode", "Visual Studio Code", "Development", "Lightweight source code editor with a large extension marketplace.",
			engine.PricingFree, nil, "", 4.8, 30000,
			[]string{"TypeScript support", "Debugging", "Git integration", "Extensions"},
			[]string{"editor", "ide", "open source"},
			[]string{"GitHub", "GitLab", "Docker"}),
		tool("webstorm", "WebStorm", "Development", "JavaScript and TypeScript IDE with deep refactoring support.",
			engine.PricingSubscription, price(69), "annual", 4.7, 5000,
			[]string{"TypeScript support", "React support", "Refactoring", "Debugging"},
			[]string{"editor", "ide"},
			[]string{"GitHub", "Jira", "Docker"}),
		tool("github", "GitHub", "Development", "Code hosting with pull requests, actions and project boards.",
			engine.PricingFreemium, price(4), "monthly", 4.7, 12000,
			[]string{"Code review", "CI/CD", "Issue tracking", "Git integration"},
			[]string{"git", "collaboration"},
			[]string{"Slack", "Jira", "VS Code"}),
		tool("jira", "Jira", "Project Management", "Issue and project tracking for software teams.",
			engine.PricingFreemium, price(8.15), "monthly", 4.3, 14000,
			[]string{"Kanban boards", "Scrum boards", "Roadmaps", "Issue tracking"},
			[]string{"agile", "tickets"},
			[]string{"GitHub", "Slack", "Confluence"}),
		tool("trello", "Trello", "Project Management", "Visual boards for organizing tasks and projects.",
			engine.PricingFreemium, price(5), "monthly", 4.4, 23000,
			[]string{"Kanban boards", "Automation", "Templates"},
			[]string{"boards", "tasks"},
			[]string{"Slack", "Google Drive", "Jira"}),
		tool("asana", "Asana", "Project Management", "Work management platform for teams.",
			engine.PricingFreemium, price(10.99), "monthly", 4.4, 11000,
			[]string{"Timelines", "Kanban boards", "Workload management", "Automation"},
			[]string{"tasks", "portfolio"},
			[]string{"Slack", "Google Drive", "Salesforce"}),
		tool("slack", "Slack", "Communication", "Channel-based messaging for teams.",
			engine.PricingFreemium, price(7.25), "monthly", 4.5, 33000,
			[]string{"Channels", "Huddles", "Workflow builder", "Search"},
			[]string{"chat", "messaging"},
			[]string{"Google Drive", "Jira", "GitHub", "Salesforce", "Zoom"}),
		tool("zoom", "Zoom", "Communication", "Video meetings and webinars.",
			engine.PricingFreemium, price(13.33), "monthly", 4.5, 55000,
			[]string{"Video meetings", "Recording", "Webinars"},
			[]string{"video", "meetings"},
			[]string{"Slack", "Google Calendar", "Salesforce"}),
		tool("figma", "Figma", "Design", "Collaborative interface design tool.",
			engine.PricingFreemium, price(12), "monthly", 4.7, 1100,
			[]string{"Prototyping", "Design systems", "Real-time collaboration"},
			[]string{"ui", "ux", "collaboration"},
			[]string{"Slack", "Jira", "Zeplin"}),
		tool("sketch", "Sketch", "Design", "Vector design toolkit for macOS.",
			engine.PricingSubscription, price(10), "monthly", 4.5, 1200,
			[]string{"Prototyping", "Symbols", "Vector editing"},
			[]string{"ui", "mac"},
			[]string{"Zeplin", "Abstract"}),
		tool("google-analytics", "Google Analytics", "Analytics", "Web and app traffic analytics.",
			engine.PricingFree, nil, "", 4.5, 6000,
			[]string{"Traffic reports", "Conversion tracking", "Audience segments"},
			[]string{"web analytics", "marketing"},
			[]string{"Google Ads", "BigQuery", "HubSpot"}),
		tool("mixpanel", "Mixpanel", "Analytics", "Product analytics for user behavior and funnels.",
			engine.PricingFreemium, price(20), "monthly", 4.6, 1100,
			[]string{"Funnels", "Retention analysis", "Cohorts"},
			[]string{"product analytics"},
			[]string{"Segment", "Slack", "BigQuery"}),
		tool("hubspot", "HubSpot CRM", "Sales", "CRM with marketing, sales and service hubs.",
			engine.PricingFreemium, price(20), "monthly", 4.4, 11000,
			[]string{"Contact management", "Email tracking", "Pipelines"},
			[]string{"crm", "marketing automation"},
			[]string{"Slack", "Gmail", "Zoom", "Salesforce"}),
		tool("salesforce", "Salesforce Sales Cloud", "Sales", "Enterprise CRM platform.",
			engine.PricingSubscription, price(25), "monthly", 4.3, 18000,
			[]string{"Pipelines", "Forecasting", "Contact management", "Workflow automation"},
			[]string{"crm", "enterprise"},
			[]string{"Slack", "Gmail", "Tableau", "Zoom", "Jira", "HubSpot", "Mailchimp", "DocuSign", "QuickBooks", "Google Drive"}),
		tool("quickbooks", "QuickBooks Online", "Finance", "Small business accounting.",
			engine.PricingSubscription, price(30), "monthly", 4.3, 7000,
			[]string{"Invoicing", "Expense tracking", "Payroll"},
			[]string{"accounting", "bookkeeping"},
			[]string{"Stripe", "PayPal", "Salesforce"}),
		tool("1password", "1Password Business", "Security", "Password manager for teams with SSO and audit logs.",
			engine.PricingSubscription, price(7.99), "monthly", 4.7, 1600,
			[]string{"Password management", "SSO", "Audit logs", "SOC 2"},
			[]string{"security", "compliance"},
			[]string{"Okta", "Slack", "Azure AD"}),
		tool("notion", "Notion", "Productivity", "Connected workspace for docs, wikis and projects.",
			engine.PricingFreemium, price(10), "monthly", 4.7, 5000,
			[]string{"Docs", "Wikis", "Databases", "Kanban boards"},
			[]string{"notes", "knowledge base"},
			[]string{"Slack", "GitHub", "Google Drive", "Jira"}),
		tool("mailchimp", "Mailchimp", "Marketing", "Email marketing and automation.",
			engine.PricingFreemium, price(13), "monthly", 4.3, 12000,
			[]string{"Email campaigns", "Automation", "Audience segments"},
			[]string{"email", "marketing automation"},
			[]string{"Shopify", "Salesforce", "HubSpot"}),
		tool("zendesk", "Zendesk", "Customer Support", "Help desk ticketing and support suite.",
			engine.PricingSubscription, price(19), "monthly", 4.3, 5800,
			[]string{"Ticketing", "Live chat", "Knowledge base"},
			[]string{"helpdesk", "support"},
			[]string{"Slack", "Salesforce", "Jira", "Shopify"}),
		tool("openai-api", "OpenAI API", "AI", "Hosted language and embedding models.",
			engine.PricingUsageBased, nil, "", 4.6, 900,
			[]string{"Text generation", "Embeddings", "Function calling"},
			[]string{"llm", "ai"},
			[]string{"Zapier", "Slack"}),
	}
}

// Seed upserts tools into repo.
func Seed(ctx context.Context, repo Repo, tools []Tool) (int, error) {
	for i, t := range tools {
		if err := repo.Upsert(ctx, t); err != nil {
			return i, fmt.Errorf("seed tool %s: %w", t.ID, err)
		}
	}
	return len(tools), nil
}
