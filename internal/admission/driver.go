// SPDX-License-Identifier: Apache-2.0

package admission

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/saab-simc-admin/workflow-tools/internal/gitinterface"
	"github.com/saab-simc-admin/workflow-tools/internal/policy"
)

// ErrMalformedInput is returned when a line on the input stream does not
// parse as "OLD SP NEW SP REF" with 40-hex OIDs. It is fatal.
var ErrMalformedInput = errors.New("malformed update line")

// Driver is the Admission Driver: it reads update triples, dispatches
// each into the policy engine, and aggregates the push's verdict.
type Driver struct {
	Engine   *policy.Engine
	Reporter *Reporter
}

// NewDriver constructs a Driver over engine, writing diagnostics to reporter.
func NewDriver(engine *policy.Engine, reporter *Reporter) *Driver {
	return &Driver{Engine: engine, Reporter: reporter}
}

// Run reads update triples from r until EOF and returns the process exit
// code: 0 if every triple is accepted, 1 on any rejection or fatal error.
// A single rejection causes the driver to short-circuit: no later
// triple, and no commit beyond the one that caused the rejection, is
// inspected.
func (d *Driver) Run(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		old, new, ref, err := parseLine(line)
		if err != nil {
			d.Reporter.Line("%s", err.Error())
			return 1
		}

		slog.Debug("processing update", "old", old.String(), "new", new.String(), "ref", ref)

		if !d.processUpdate(old, new, ref) {
			return 1
		}
	}
	if err := scanner.Err(); err != nil {
		d.Reporter.Line("unable to read input: %s", err.Error())
		return 1
	}

	return 0
}

// processUpdate applies the per-triple decision steps and returns
// whether it is accepted.
func (d *Driver) processUpdate(old, new gitinterface.Hash, ref string) bool {
	kind := policy.ClassifyUpdate(old, new)
	class := policy.ClassifyRef(ref)

	if kind == policy.Delete {
		verdict := d.Engine.Deletion(ref, class)
		d.log(verdict)
		return verdict.Accept
	}

	masterVerdict := d.Engine.MasterRule(ref, old, new)
	d.log(masterVerdict)
	if !masterVerdict.Accept {
		return false
	}

	walked, err := policy.Walk(d.Engine.Repo, old, new, ref)
	if err != nil {
		d.Reporter.Line("%s", err.Error())
		return false
	}

	if len(walked) > 0 {
		for _, wc := range walked {
			slog.Debug("checking walked object", "id", wc.ID.String(), "kind", wc.Kind.String())
			verdict := d.Engine.CheckCommit(kind, wc)
			d.log(verdict)
			if !verdict.Accept {
				return false
			}
		}
		return true
	}

	verdict := d.Engine.CheckZeroObjects(ref, old, new)
	d.log(verdict)
	return verdict.Accept
}

func (d *Driver) log(v policy.Verdict) {
	if v.Message == "" {
		return
	}
	d.Reporter.Line("%s", v.Message)
}

func parseLine(line string) (old, new gitinterface.Hash, ref string, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return old, new, "", fmt.Errorf("%w: %q", ErrMalformedInput, line)
	}

	old, err = gitinterface.NewHash(fields[0])
	if err != nil {
		return old, new, "", fmt.Errorf("%w: %q: %v", ErrMalformedInput, line, err)
	}

	new, err = gitinterface.NewHash(fields[1])
	if err != nil {
		return old, new, "", fmt.Errorf("%w: %q: %v", ErrMalformedInput, line, err)
	}

	return old, new, fields[2], nil
}
