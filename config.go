package signup

// WorkflowConfig is a plain value implementation of Config for callers that
// load settings from files or flags at startup.
type WorkflowConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	Environment     string
	BaseURL         string
	SMTP            SMTPConfig
}

var _ Config = WorkflowConfig{}

func (c WorkflowConfig) GetSigningKey() string   { return c.SigningKey }
func (c WorkflowConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c WorkflowConfig) GetIssuer() string       { return c.Issuer }
func (c WorkflowConfig) GetAudience() []string   { return c.Audience }
func (c WorkflowConfig) GetEnvironment() string  { return c.Environment }
func (c WorkflowConfig) GetBaseURL() string      { return c.BaseURL }

// BuildWorkflow wires a Workflow from configuration: hashing cost comes from
// the environment, the token service from the signing settings. Pass a
// custom mailer when the default SMTP transport does not fit.
func BuildWorkflow(cfg Config, store AccountStore, smtp SMTPConfig) *Workflow {
	hasher := HasherForEnvironment(cfg.GetEnvironment())

	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		nil,
	)

	mailer := NewSMTPMailer(smtp, cfg.GetBaseURL())

	return NewWorkflow(store, hasher, tokens, mailer)
}
