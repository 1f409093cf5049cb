package tools

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Summarize turns a completed invocation into a one-line description for
// the transcript, e.g. "add 41 + 1 = 42" or "read notes.txt".
func Summarize(name, args, result string) string {
	switch name {
	case "add":
		a := gjson.Get(args, "a")
		b := gjson.Get(args, "b")
		if sum := gjson.Get(result, "sum"); sum.Exists() {
			return fmt.Sprintf("add %s + %s = %s", a.String(), b.String(), sum.String())
		}
		return fmt.Sprintf("add %s + %s", a.String(), b.String())
	case "read_file":
		path := gjson.Get(args, "path").String()
		if errv := gjson.Get(result, "error"); errv.Exists() {
			return fmt.Sprintf("read %s (%s)", path, errv.String())
		}
		return "read " + path
	case "write_file":
		path := gjson.Get(args, "path").String()
		if errv := gjson.Get(result, "error"); errv.Exists() {
			return fmt.Sprintf("write %s (%s)", path, errv.String())
		}
		mode := gjson.Get(result, "mode").String()
		n := gjson.Get(result, "bytes_written").Int()
		return fmt.Sprintf("%s %s (%d bytes)", mode, path, n)
	case "list_models":
		n := gjson.Get(result, "models.#").Int()
		return fmt.Sprintf("list models (%d found)", n)
	case "set_model":
		if gjson.Get(result, "status").String() == "ok" {
			return "switch to " + gjson.Get(result, "new").String()
		}
		return "switch model failed"
	default:
		if errv := gjson.Get(result, "error"); errv.Exists() {
			return fmt.Sprintf("%s (%s)", name, errv.String())
		}
		return name
	}
}
