package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCommander struct {
	calls []string
}

func (f *fakeCommander) rec(s ...string) error {
	f.calls = append(f.calls, strings.Join(s, " "))
	return nil
}

func (f *fakeCommander) List(context.Context) error { return f.rec("list") }
func (f *fakeCommander) Show(_ context.Context, k string) error { return f.rec("show", k) }
func (f *fakeCommander) Add(_ context.Context, l string) error { return f.rec("add", l) }
func (f *fakeCommander) Import(_ context.Context, p string) error {
	return f.rec("import", p)
}
func (f *fakeCommander) Export(_ context.Context, p, k string) error {
	return f.rec("export", p, k)
}
func (f *fakeCommander) ASF(_ context.Context, t, p string) error { return f.rec("asf", t, p) }
func (f *fakeCommander) Delete(context.Context, string) error {
	f.calls = append(f.calls, "delete")
	return errors.New("not found")
}
func (f *fakeCommander) Clear(context.Context) error { return f.rec("clear") }
func (f *fakeCommander) Count(context.Context) error { return f.rec("count") }

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"",
		"list",
		"show 765",
		"add a:b:c:d:https://x/profiles/1",
		"import  bundle.zip",
		"export all.zip",
		"export one.zip 765",
		"asf tpl.json out.zip",
		"delete 765",
		"count",
		"foobar",
		"exit",
		"list",
	}, "\n")

	var out bytes.Buffer
	f := &fakeCommander{}
	runREPL(context.Background(), f, bufio.NewReader(strings.NewReader(input)), &out, "sk> ")

	assert.Equal(t, []string{
		"list",
		"show 765",
		"add a:b:c:d:https://x/profiles/1",
		"import bundle.zip",
		"export all.zip ",
		"export one.zip 765",
		"asf tpl.json out.zip",
		"delete",
		"count",
	}, f.calls)
	assert.Contains(t, out.String(), "Available commands:")
	assert.Contains(t, out.String(), "Error: not found")
	assert.Contains(t, out.String(), "Unknown command: foobar")
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	f := &fakeCommander{}
	runREPL(context.Background(), f, bufio.NewReader(strings.NewReader("count")), &bytes.Buffer{}, "")
	assert.Equal(t, []string{"count"}, f.calls)
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, Confirm(bufio.NewReader(strings.NewReader("YES\n")), "sure?", &out))
	assert.False(t, Confirm(bufio.NewReader(strings.NewReader("n\n")), "sure?", &out))
	assert.False(t, Confirm(bufio.NewReader(strings.NewReader("")), "sure?", &out))
}
