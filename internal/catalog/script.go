package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

// maxShebangLen matches the kernel's limit on the #! line.
const maxShebangLen = 256

// ParseShebang reads the #! line at the start of r and returns the
// interpreter and its arguments. At most maxShebangLen bytes are read.
func ParseShebang(r io.Reader) (string, []string, error) {
	buf, err := bufio.NewReaderSize(io.LimitReader(r, maxShebangLen), maxShebangLen).ReadSlice('\n')
	line := string(buf)
	switch {
	case err == nil, err == io.EOF && len(buf) < maxShebangLen:
	case err == io.EOF, errors.Is(err, bufio.ErrBufferFull):
		if !strings.HasPrefix(line, "#!") {
			return "", nil, ErrNoShebang
		}
		return "", nil, fmt.Errorf("%w: #! line longer than %d bytes", ErrInvalidScript, maxShebangLen)
	default:
		return "", nil, err
	}

	rest, ok := strings.CutPrefix(line, "#!")
	if !ok {
		return "", nil, ErrNoShebang
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, ErrNoShebang
	}
	return fields[0], fields[1:], nil
}

// Action converts the entry into something the runner can execute.
// Folders and empty entries become no-ops.
func (e *Entry) Action() (types.Action, error) {
	switch {
	case e.IsFolder():
		return types.NoOp(), nil

	case e.Command != "":
		return types.RawShellLine(e.Command), nil

	case e.ScriptPath != "":
		f, err := os.Open(e.ScriptPath)
		if err != nil {
			return types.Action{}, fmt.Errorf("%w: %s: %w", ErrInvalidScript, e.Name, err)
		}
		defer f.Close()

		program, args, err := ParseShebang(f)
		if err != nil {
			return types.Action{}, fmt.Errorf("%w: %s: %w", ErrInvalidScript, e.Name, err)
		}
		return types.LocalExecutable(program, append(args, e.ScriptPath), e.ScriptPath), nil

	default:
		return types.NoOp(), nil
	}
}

// ValidateScript checks that path exists and holds text
func ValidateScript(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScript, path, err)
	}

	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s, not text", ErrInvalidScript, path, mtype.String())
}
