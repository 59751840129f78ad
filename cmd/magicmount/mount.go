package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sysmod/magicmount/pkg/config"
	"github.com/sysmod/magicmount/pkg/filesystem"
	"github.com/sysmod/magicmount/pkg/magicmount"
	"github.com/sysmod/magicmount/pkg/mount"
	"github.com/sysmod/magicmount/pkg/sepolicy"
)

var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Apply all enabled modules to the live filesystem",
	Long: `Scans the module repository, merges the content of every enabled module
into one virtual tree and realizes it over the live filesystem through
mount operations. Requires root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Error().Err(err).Msg("failed to load configuration")
			return err
		}

		err = magicmount.Apply(filesystem.NewOS(), mount.NewOS(), sepolicy.ForHost(), magicmount.Options{
			ModuleDir: cfg.Modules.Dir,
			WorkDir:   cfg.Mount.WorkDir,
			Source:    cfg.Mount.Source,
			Root:      cfg.Mount.Root,
		})
		if err != nil {
			log.Error().Err(err).Msg("magic mount failed")
		}
		return err
	},
}
