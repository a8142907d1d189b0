package snake

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		use  string
		want []Arg
	}{
		{use: "list"},
		{use: "show <ref>", want: []Arg{{Name: "ref", Required: true}}},
		{use: "import <pattern>...", want: []Arg{{Name: "pattern", Required: true, Variadic: true}}},
		{use: "tree [number]", want: []Arg{{Name: "number"}}},
		{use: "update <ref> [flags]", want: []Arg{{Name: "ref", Required: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Args(tt.use)); diff != "" {
				t.Errorf("Args(%q) (-want +got):\n%s", tt.use, diff)
			}
		})
	}
}

func TestFlagsSkipsHelpAndInteractive(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().String("lang", "en", "language")
	cmd := &cobra.Command{Use: "add", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("name", "", "clause name")
	cmd.Flags().BoolP("interactive", "i", false, "prompt")
	cmd.Flags().Bool("secret", false, "hidden")
	_ = cmd.Flags().MarkHidden("secret")
	root.AddCommand(cmd)
	cmd.InitDefaultHelpFlag()

	var names []string
	for _, f := range Flags(cmd) {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"name", "lang"}, names); diff != "" {
		t.Errorf("Flags (-want +got):\n%s", diff)
	}
}

func TestValidator(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Bool("informative", false, "")
	cmd.Flags().Int("order", 0, "")
	cmd.Flags().Duration("ttl", 0, "")
	cmd.Flags().String("name", "", "")

	tests := []struct {
		flag, input string
		ok          bool
	}{
		{"informative", "", true},
		{"informative", "oui", true},
		{"informative", "maybe", false},
		{"order", "12", true},
		{"order", "twelve", false},
		{"ttl", "30m", true},
		{"ttl", "soon", false},
		{"name", "anything", true},
	}
	for _, tt := range tests {
		err := Validator(cmd.Flags().Lookup(tt.flag))(tt.input)
		if got := err == nil; got != tt.ok {
			t.Errorf("%s=%q: got ok=%v, want %v (%v)", tt.flag, tt.input, got, tt.ok, err)
		}
	}
}

func TestRunnable(t *testing.T) {
	root := &cobra.Command{Use: "clauses"}
	noop := func(*cobra.Command, []string) error { return nil }
	root.AddCommand(
		&cobra.Command{Use: "list", RunE: noop},
		&cobra.Command{Use: "gone", RunE: noop, Hidden: true},
		&cobra.Command{Use: "topic"},
	)

	var names []string
	for _, c := range Runnable(root) {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"list"}, names); diff != "" {
		t.Errorf("Runnable (-want +got):\n%s", diff)
	}
}

func TestHint(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Bool("on", true, "")
	cmd.Flags().StringSlice("clauses", nil, "")
	cmd.Flags().String("lang", "en", "")

	for name, want := range map[string]string{
		"on":      "[true]/false",
		"clauses": "comma separated",
		"lang":    `"en"`,
	} {
		if got := hint(cmd.Flags().Lookup(name)); got != want {
			t.Errorf("hint(%s) = %q, want %q", name, got, want)
		}
	}
}
