package shellcfg

import "os"

// inputrcContent tunes readline: case-insensitive completion, colored
// candidates, and history search bound to the arrow keys.
const inputrcContent = `set completion-ignore-case on
set show-all-if-ambiguous on
set colored-stats on
set colored-completion-prefix on
set visible-stats on
"\e[A": history-search-backward
"\e[B": history-search-forward
"\e[1;5C": forward-word
"\e[1;5D": backward-word
`

// profileContent is the managed bash profile: completion, a git-aware
// prompt, persistent history under ~/.local/share/bash, and the editor
// wiring VS Code expects.
const profileContent = `# Bash completion
if ! shopt -oq posix; then
  [ -f /usr/share/bash-completion/bash_completion ] && . /usr/share/bash-completion/bash_completion
fi

# Git prompt
export GIT_PS1_SHOWDIRTYSTATE=1
export GIT_PS1_SHOWSTASHSTATE=1
export GIT_PS1_SHOWUNTRACKEDFILES=1
export GIT_PS1_SHOWUPSTREAM="auto"

_c_reset='\[\033[0m\]'
_c_user='\[\033[01;32m\]'
_c_path='\[\033[01;36m\]'
_c_git='\[\033[01;33m\]'

if type -t __git_ps1 &>/dev/null; then
    PS1="${_c_user}\u${_c_reset}@\h:${_c_path}\w${_c_reset}${_c_git}\$(__git_ps1 ' (%s)')${_c_reset}\n\$ "
else
    PS1="${_c_user}\u${_c_reset}@\h:${_c_path}\w${_c_reset}\n\$ "
fi

# History
export HISTFILE="$HOME/.local/share/bash/history"
export HISTSIZE=10000
export HISTFILESIZE=20000
export HISTCONTROL=ignoredups:erasedups
shopt -s histappend
PROMPT_COMMAND="history -a; history -c; history -r${PROMPT_COMMAND:+; $PROMPT_COMMAND}"

# Shell options
shopt -s checkwinsize cdspell dirspell nocaseglob globstar 2>/dev/null

# Aliases
alias ll='ls -lh' la='ls -lAh' ..='cd ..' ...='cd ../..'
alias grep='grep --color=auto'
alias bz='bazelisk'

# Environment
export EDITOR="code --wait"
export PYTHONDONTWRITEBYTECODE=1 PYTHONUNBUFFERED=1

# Bazel completion
command -v bazelisk &>/dev/null && eval "$(bazelisk completion bash)"
`

// enableLine is what gets appended to .bashrc, guarded so a missing
// profile never breaks shell startup.
const enableLine = "\n[ -f ~/.vscode_profile ] && . ~/.vscode_profile\n"

// writeIfDifferent writes content to path only when the current bytes
// differ, so repeat runs leave mtimes and bytes untouched.
func writeIfDifferent(path string, content []byte) (bool, error) {
	current, err := os.ReadFile(path)
	if err == nil && string(current) == string(content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
