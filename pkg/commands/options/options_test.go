package options

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
)

func TestClauseApplyOnlyChanged(t *testing.T) {
	o := &ClauseOptions{}
	cmd := &cobra.Command{Use: "update"}
	AddClauseArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--name=Keyboard", "--informative"}); err != nil {
		t.Fatal(err)
	}

	r := clause.Record{ID: "c1", Number: "5.2", Name: "Old", FrName: "Clavier"}
	o.Apply(cmd.Flags(), &r)

	want := clause.Record{ID: "c1", Number: "5.2", Name: "Keyboard", FrName: "Clavier", Informative: true}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("Apply (-want +got):\n%s", diff)
	}
}

func TestPresetApplyReplacesClauses(t *testing.T) {
	o := &PresetOptions{}
	cmd := &cobra.Command{Use: "update"}
	AddPresetArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--clauses=5.1,5.2", "--order=3"}); err != nil {
		t.Fatal(err)
	}

	p := clause.Preset{Name: "Web", Clauses: []string{"9.1"}}
	o.Apply(cmd.Flags(), &p)

	want := clause.Preset{Name: "Web", Order: 3, Clauses: []string{"5.1", "5.2"}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Apply (-want +got):\n%s", diff)
	}
}

func TestInfoApplyBodyFileMissing(t *testing.T) {
	o := &InfoOptions{}
	cmd := &cobra.Command{Use: "add"}
	AddInfoArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--body-file=" + t.TempDir() + "/missing.html"}); err != nil {
		t.Fatal(err)
	}
	if err := o.Resolve(cmd.Flags()); err == nil {
		t.Error("expected an error for a missing body file")
	}
}

func TestSelectionRequest(t *testing.T) {
	o := &SelectionOptions{}
	cmd := &cobra.Command{Use: "generate"}
	AddSelectionArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"-p", "web", "--answers=hearing,vision", "-s", "11", "-s", "5.2"}); err != nil {
		t.Fatal(err)
	}

	want := app.SelectionRequest{Preset: "web", Answers: []string{"hearing", "vision"}, Select: []string{"11", "5.2"}}
	if diff := cmp.Diff(want, o.Request()); diff != "" {
		t.Errorf("Request (-want +got):\n%s", diff)
	}
}

func TestHandleErrorJSON(t *testing.T) {
	var buf strings.Builder
	o := &OutputOptions{JSON: true, Out: &buf}

	err := o.HandleError(clause.ErrNameRequired)
	if !errors.Is(err, ErrReported) || !errors.Is(err, clause.ErrNameRequired) {
		t.Fatalf("HandleError = %v, want both ErrReported and the cause", err)
	}
	if got, want := buf.String(), `{"error":"clause: name required"}`+"\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if err := o.HandleError(nil); err != nil {
		t.Errorf("HandleError(nil) = %v", err)
	}
}

func TestMCPAddr(t *testing.T) {
	o := &MCPOptions{}
	cmd := &cobra.Command{Use: "mcp"}
	AddMCPArgs(cmd, o)
	if err := cmd.ParseFlags([]string{"--http-host=", "--http-port=0"}); err != nil {
		t.Fatal(err)
	}
	addr, err := o.Addr()
	if err != nil {
		t.Fatal(err)
	}
	if addr != "127.0.0.1:0" {
		t.Errorf("addr = %q", addr)
	}
	o.Port = 70000
	if _, err := o.Addr(); err == nil {
		t.Error("expected an error for port 70000")
	}
}
