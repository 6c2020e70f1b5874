package course

// The built-in six-week "AI Essentials" program. Seeded into the store once
// at first start; admins may manage materials and assignments afterwards.

type (
	seedMaterial struct {
		title string
		kind  string
		ref   string
	}

	seedModule struct {
		week        int
		title       string
		description string
		prompt      string
		materials   []seedMaterial
	}
)

var seedCatalog = []seedModule{
	{
		week:        1,
		title:       "Introduction to AI & Workplace Applications",
		description: "Core AI concepts, responsible AI, and cross-industry case studies (telecoms, sales, credit, finance, analytics).",
		prompt:      "Identify three job tasks you will enhance with AI and outline an adoption plan (tools, expected gain, risks).",
		materials: []seedMaterial{
			{"OECD AI Principles (overview)", KindLink, "https://oecd.ai/en/ai-principles"},
			{"Microsoft Responsible AI Standard (overview)", KindLink, "https://www.microsoft.com/en-us/ai/responsible-ai"},
			{"Power BI Documentation", KindLink, "https://learn.microsoft.com/power-bi/"},
		},
	},
	{
		week:        2,
		title:       "AI for Sales & Customer Engagement",
		description: "AI CRM, predictive lead scoring, churn management, and conversational AI for customer support.",
		prompt:      "Build a customer segmentation and draft an AI-driven sales script for a chosen segment.",
		materials: []seedMaterial{
			{"Salesforce Einstein Overview", KindLink, "https://www.salesforce.com/products/einstein/overview/"},
			{"HubSpot AI Features", KindLink, "https://www.hubspot.com/products/ai"},
			{"Churn Prediction (Concepts & Examples)", KindLink, "https://en.wikipedia.org/wiki/Customer_attrition"},
			{"Conversational AI: Design Best Practices", KindLink, "https://cloud.google.com/architecture/dialogflow-design"},
		},
	},
	{
		week:        3,
		title:       "AI in Credit & Finance",
		description: "Credit scoring, fraud/anomaly detection, forecasting, compliance and governance in AI.",
		prompt:      "Create a credit risk dashboard highlighting risky vs safe clients. Explain your approach in 200 words.",
		materials: []seedMaterial{
			{"Credit Scoring Basics (PD/LGD/EAD)", KindLink, "https://en.wikipedia.org/wiki/Credit_scoring"},
			{"Anomaly & Fraud Detection Guide (sklearn)", KindLink, "https://scikit-learn.org/stable/modules/outlier_detection.html"},
			{"Time Series Forecasting (Intro)", KindLink, "https://otexts.com/fpp3/"},
			{"Model Risk Management (General Concepts)", KindLink, "https://en.wikipedia.org/wiki/Model_risk"},
		},
	},
	{
		week:        4,
		title:       "AI for Data Analysis & Business Intelligence",
		description: "AI-assisted analytics with Excel/Power BI, NLP for text data, and data storytelling.",
		prompt:      "Analyze a dataset using Power BI/Excel AI. Submit a dashboard + 1-page executive summary.",
		materials: []seedMaterial{
			{"Power BI Learning Path", KindLink, "https://learn.microsoft.com/power-bi/"},
			{"Excel with Copilot (Overview)", KindLink, "https://support.microsoft.com/en-us/office/get-started-with-copilot-in-excel"},
			{"NLP 101 (Tokenization → Sentiment → Topics)", KindLink, "https://scikit-learn.org/stable/tutorial/text_analytics/working_with_text.html"},
			{"Data Storytelling Patterns", KindLink, "https://www.data-to-viz.com/"},
		},
	},
	{
		week:        5,
		title:       "AI in Telecoms & Network Optimization",
		description: "Predictive maintenance, ARPU optimization, churn reduction, and retail expansion insights.",
		prompt:      "Using telecom KPIs (RGB, ARPU, BTS), identify high-growth regions and recommend actions.",
		materials: []seedMaterial{
			{"AI for Predictive Maintenance (Intro)", KindLink, "https://en.wikipedia.org/wiki/Predictive_maintenance"},
			{"Time Series for KPIs (ARPU/Usage)", KindLink, "https://otexts.com/fpp3/forecasting.html"},
			{"Geospatial in Power BI", KindLink, "https://learn.microsoft.com/power-bi/visuals/power-bi-map-tips-and-tricks"},
		},
	},
	{
		week:        6,
		title:       "Capstone & Future of AI at Work",
		description: "Generative AI, AutoML, AI in 5G/IoT, best practices, and career pathways. Capstone showcase.",
		prompt:      "Capstone: Propose and present an AI-powered solution for a real business problem in your domain.",
		materials: []seedMaterial{
			{"Intro to Generative AI (High level)", KindLink, "https://cloud.google.com/learn/what-is-generative-ai"},
			{"AutoML Concepts", KindLink, "https://en.wikipedia.org/wiki/Automated_machine_learning"},
			{"MLOps Overview", KindLink, "https://www.microsoft.com/en-us/research/project/mlops/"},
			{"Presentation Best Practices", KindLink, "https://www.duarte.com/presentation-skills-resources/"},
		},
	},
}
