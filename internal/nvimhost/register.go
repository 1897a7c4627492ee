package nvimhost

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neovim/go-client/nvim"
	"github.com/neovim/go-client/nvim/plugin"

	"quarto-preview/internal/config"
	"quarto-preview/internal/preview"
)

const augroup = "QuartoPreviewLifecycle"

// Register wires the user commands and lifecycle autocmds onto a plugin
// connection. cfg may be nil (defaults, no auto-close).
func Register(p *plugin.Plugin, cfg *config.Config) error {
	host := New(p.Nvim)
	mgr := preview.NewManager(host, cfg)

	p.HandleCommand(&plugin.CommandOptions{Name: "QuartoPreview", NArgs: "*"},
		func(args []string) error {
			ctx, err := host.nv.CurrentBuffer()
			if err != nil {
				return err
			}
			launch(host, mgr, preview.ContextID(ctx), strings.Join(args, " "))
			return nil
		})

	p.HandleCommand(&plugin.CommandOptions{Name: "QuartoClosePreview"},
		func() error {
			ctx, err := host.nv.CurrentBuffer()
			if err != nil {
				return err
			}
			mgr.Close(preview.ContextID(ctx))
			return nil
		})

	// The editor is going away: tear down every bound preview.
	p.HandleAutocmd(&plugin.AutocmdOptions{Event: "QuitPre", Group: augroup, Pattern: "*"},
		func() {
			host.fireAll()
		})

	// A window closed: signal the context it was showing. WinClosed fires
	// just before the window leaves the layout, so winbufnr still works.
	p.HandleAutocmd(&plugin.AutocmdOptions{
		Event: "WinClosed", Group: augroup, Pattern: "*",
		Eval: "winbufnr(str2nr(expand('<amatch>')))",
	}, func(buf int) {
		if buf > 0 {
			host.fireContext(preview.ContextID(buf))
		}
	})

	// A context died without its close signal firing: drop the binding
	// and the pending observer, leave the surface to the user.
	p.HandleAutocmd(&plugin.AutocmdOptions{
		Event: "BufDelete", Group: augroup, Pattern: "*",
		Eval: "str2nr(expand('<abuf>'))",
	}, func(buf int) {
		if buf > 0 {
			mgr.Forget(preview.ContextID(buf))
		}
	})

	// When served over a plain jobstart channel there is no rplugin
	// manifest, so the commands and autocmds are created directly. In
	// manifest mode p.Nvim is nil and the specs above are all that runs.
	if p.Nvim != nil {
		return bindEditor(p.Nvim)
	}
	return nil
}

// bindEditor maps the registered RPC handlers onto editor commands and
// autocmds for a manifest-free (jobstart) session. rpcrequest keeps the
// teardown synchronous, which matters for QuitPre.
func bindEditor(nv *nvim.Nvim) error {
	ch := nv.ChannelID()
	cmds := []string{
		fmt.Sprintf("command! -nargs=* QuartoPreview call rpcrequest(%d, ':command:QuartoPreview', [<f-args>])", ch),
		fmt.Sprintf("command! QuartoClosePreview call rpcrequest(%d, ':command:QuartoClosePreview')", ch),
		"augroup " + augroup,
		"autocmd!",
		fmt.Sprintf("autocmd QuitPre * call rpcrequest(%d, ':autocmd:QuitPre:*')", ch),
		fmt.Sprintf("autocmd WinClosed * call rpcrequest(%d, ':autocmd:WinClosed:*', winbufnr(str2nr(expand('<amatch>'))))", ch),
		fmt.Sprintf("autocmd BufDelete * call rpcrequest(%d, ':autocmd:BufDelete:*', str2nr(expand('<abuf>')))", ch),
		"augroup END",
	}
	for _, c := range cmds {
		if err := nv.Command(c); err != nil {
			return err
		}
	}
	return nil
}

// launch runs one preview request and reports the outcome at the severity
// the failure deserves. None of these errors are fatal to the editor.
func launch(host *Host, mgr *preview.Manager, ctx preview.ContextID, extraArgs string) {
	_, err := mgr.Launch(ctx, extraArgs)
	if err == nil {
		return
	}
	var unsupported *preview.UnsupportedTypeError
	switch {
	case errors.Is(err, preview.ErrNotInFile):
		host.Notify(preview.Warn, "quarto-preview: not in a file")
	case errors.As(err, &unsupported):
		host.Notify(preview.Warn, fmt.Sprintf("quarto-preview: unsupported file type %q", unsupported.Ext))
	default:
		host.Notify(preview.Error, "quarto-preview: "+err.Error())
	}
}
