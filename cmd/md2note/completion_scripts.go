package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Shells accepted by the completion command itself.
var completionShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

func commandNames(cmds []commandDef) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// flagWords lists "--long" and "-s" spellings of every flag.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"]. A bare "*"
// yields nil (any file).
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		g = strings.TrimSpace(g)
		if strings.HasPrefix(g, "*.") {
			exts = append(exts, strings.TrimPrefix(g, "*."))
		}
	}
	return exts
}

// takesValue reports whether the flag consumes the next word.
func takesValue(f flagDef) bool {
	return f.Type != flagBool
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashFileCompgen(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return `COMPREPLY=( $(compgen -f -- "${cur}") )`
	}
	return fmt.Sprintf(`COMPREPLY=( $(compgen -f -X '!*.@(%s)' -- "${cur}") $(compgen -d -- "${cur}") )`, strings.Join(exts, "|"))
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for md2note\n")
	b.WriteString("shopt -s extglob\n\n")
	b.WriteString("_md2note_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		switch c.Name {
		case "completion":
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(completionShells, " "))
			b.WriteString("            ;;\n")
			continue
		case "help":
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
			b.WriteString("            ;;\n")
			continue
		}

		var valued []flagDef
		for _, f := range c.Flags {
			if takesValue(f) {
				valued = append(valued, f)
			}
		}
		if len(valued) > 0 {
			b.WriteString("            case \"${prev}\" in\n")
			for _, f := range valued {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "                %s) COMPREPLY=( $(compgen -W %q -- \"${cur}\") ); return 0 ;;\n", pattern, strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "                %s) %s; return 0 ;;\n", pattern, bashFileCompgen(f.FileGlob))
				default:
					fmt.Fprintf(&b, "                %s) return 0 ;;\n", pattern)
				}
			}
			b.WriteString("            esac\n")
		}

		b.WriteString("            if [[ ${cur} == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(flagWords(c.Flags), " "))
		if c.TakesFiles {
			b.WriteString("            else\n")
			fmt.Fprintf(&b, "                %s\n", bashFileCompgen(c.FilePattern))
		}
		b.WriteString("            fi\n")
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _md2note_completions md2note\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)

func zshGlob(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return "_files"
	}
	return fmt.Sprintf(`_files -g "*.(%s)"`, strings.Join(exts, "|"))
}

func zshFlagSpec(f flagDef) string {
	desc := zshEscaper.Replace(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.Values, " "))
	case flagFile:
		action = ":file:" + zshGlob(f.FileGlob)
	default:
		action = ":value: "
	}
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef md2note\n\n")
	b.WriteString("_md2note() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		switch c.Name {
		case "completion":
			fmt.Fprintf(&b, "            _arguments '1:shell:(%s)'\n", strings.Join(completionShells, " "))
		case "help":
			fmt.Fprintf(&b, "            _arguments '1:command:(%s)'\n", strings.Join(commandNames(cmds), " "))
		default:
			if len(c.Flags) == 0 && !c.TakesFiles {
				b.WriteString("            ;;\n")
				continue
			}
			b.WriteString("            _arguments")
			for _, f := range c.Flags {
				fmt.Fprintf(&b, " \\\n                %s", zshFlagSpec(f))
			}
			if c.TakesFiles {
				fmt.Fprintf(&b, " \\\n                '*:file:%s'", zshGlob(c.FilePattern))
			}
			b.WriteString("\n")
		}
		b.WriteString("            ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _md2note md2note\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer(`'`, `\'`)

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for md2note\n\n")
	b.WriteString("function __fish_md2note_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_md2note_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c md2note -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c md2note -n __fish_md2note_needs_command -a %s -d '%s'\n", c.Name, fishEscaper.Replace(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_md2note_using_command %s'", c.Name)
		switch c.Name {
		case "completion":
			fmt.Fprintf(&b, "complete -c md2note -n %s -x -a '%s'\n", cond, strings.Join(completionShells, " "))
			continue
		case "help":
			fmt.Fprintf(&b, "complete -c md2note -n %s -x -a '%s'\n", cond, strings.Join(commandNames(cmds), " "))
			continue
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c md2note -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscaper.Replace(f.Desc))
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			for _, ext := range globExtensions(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c md2note -n %s -k -a '(__fish_complete_suffix .%s)'\n", cond, ext)
			}
			fmt.Fprintf(&b, "complete -c md2note -n %s -a '(__fish_complete_directories)'\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

var psEscaper = strings.NewReplacer(`'`, `''`)

func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + psEscaper.Replace(s) + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for md2note\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName md2note -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psEscaper.Replace(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		if len(c.Flags) > 0 {
			fmt.Fprintf(&b, "        '%s' = %s\n", c.Name, psList(flagWords(c.Flags)))
		}
	}
	b.WriteString("    }\n\n")

	values := map[string][]string{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type == flagEnum {
				values["--"+f.Long] = f.Values
				if f.Short != "" {
					values["-"+f.Short] = f.Values
				}
			}
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("    $values = @{\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "        '%s' = %s\n", k, psList(values[k]))
	}
	fmt.Fprintf(&b, "        'completion' = %s\n", psList(completionShells))
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $prev = if ($wordToComplete) { $elements[-2] } else { $elements[-1] }\n")
	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    if ($flags.ContainsKey($cmd)) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
