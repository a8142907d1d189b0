package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/a11yreq/pkg/clause"
)

// GlobalOptions are the persistent flags every command shares. Path, rules
// and log level override `.a11yreq.yaml` through viper.
type GlobalOptions struct {
	Path     string
	Rules    string
	LogLevel string
	Lang     string
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Path, "path", "",
		"Directory holding the catalogue. Defaults to ~/.a11yreq.db.")
	flags.StringVar(&o.Rules, "rules", "",
		"YAML file of wizard questions and the clauses they select.")
	flags.StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
	flags.StringVar(&o.Lang, "lang", string(clause.LangEN),
		"Language of names and documents: en or fr.")

	_ = viper.BindPFlag("path", flags.Lookup("path"))
	_ = viper.BindPFlag("rules", flags.Lookup("rules"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

// Language parses the --lang flag.
func (o *GlobalOptions) Language() (clause.Lang, error) {
	return clause.ParseLang(o.Lang)
}
