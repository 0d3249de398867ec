package email

// PreviewData holds sample values for every template, keyed by template
// name. It is used to render previews and in tests.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"Username": "jane",
	},
	TemplateRoleChanged: {
		"Username": "jane",
		"Role":     "seller",
	},
}
