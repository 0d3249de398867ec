package email

import "github.com/deppfellow/storefront/internal/model"

func (c *Client) SendWelcomeEmail(to, username string) error {
	return c.SendEmail(to, "Welcome to Storefront!", TemplateWelcome, map[string]string{
		"Username": username,
	})
}

func (c *Client) SendRoleChangedEmail(to, username string, role model.Role) error {
	return c.SendEmail(to, "Your Storefront role has changed", TemplateRoleChanged, map[string]string{
		"Username": username,
		"Role":     role.String(),
	})
}
