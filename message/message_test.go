package message_test

import (
	"errors"
	"os"
	"testing"

	"github.com/sarchlab/zincfield/message"
)

func TestNewFormatsMessage(t *testing.T) {
	err := message.New(message.Argument, "field %q needs %d components", "f", 3)
	if err.Code != message.Argument {
		t.Fatalf("Code = %v, want Argument", err.Code)
	}
	want := `ARGUMENT: field "f" needs 3 components`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCodeOfNil(t *testing.T) {
	if message.CodeOf(nil) != message.OK {
		t.Fatalf("CodeOf(nil) = %v, want OK", message.CodeOf(nil))
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if message.CodeOf(errors.New("boom")) != message.General {
		t.Fatal("CodeOf of a non-message error must default to General")
	}
}

func TestCodeOfOwnError(t *testing.T) {
	err := message.New(message.NotFound, "missing")
	if message.CodeOf(err) != message.NotFound {
		t.Fatalf("CodeOf(err) = %v, want NotFound", message.CodeOf(err))
	}
}

func TestCodeStringRoundTripNames(t *testing.T) {
	cases := map[message.Code]string{
		message.OK:            "OK",
		message.Argument:      "ARGUMENT",
		message.AlreadyExists: "ALREADY_EXISTS",
		message.Memory:        "MEMORY",
		message.NotFound:      "NOT_FOUND",
		message.InUse:         "IN_USE",
		message.General:       "GENERAL",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", code, got, want)
		}
	}
}

func TestWriterSinkWritesPrefixedLine(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	sink := message.NewWriterSink(w, "test")
	sink.Log(message.Warning, "value %d is out of range", 42)
	w.Close()

	buf := make([]byte, 256)
	n, _ := r.Read(buf)
	got := string(buf[:n])
	want := "test [WARNING] value 42 is out of range\n"
	if got != want {
		t.Fatalf("Log output = %q, want %q", got, want)
	}
}

func TestDefaultSinkWritesToStdout(t *testing.T) {
	s := message.DefaultSink()
	if s == nil {
		t.Fatal("DefaultSink() must not return nil")
	}
}
