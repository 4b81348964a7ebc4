package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qc-tracking-backend/internal/client"
	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/ocr"
	"qc-tracking-backend/internal/parse"
	"qc-tracking-backend/internal/quality"
)

var (
	submitGroup, submitShift, submitLine string
	submitSuhu, submitBerat              string
	submitKualitas, submitDate           string
	submitBeratImage                     string
	submitDryRun                         bool

	evaluateLocal bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate SUHU BERAT",
	Short: "Show the verdict a measurement would get",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		std := cfg.Standards
		if !evaluateLocal {
			var err error
			if std, err = apiClient.Standards(cmd.Context()); err != nil {
				return err
			}
		}

		suhu, err := parse.Suhu(args[0])
		if err != nil {
			return &quality.ValidationError{Field: "suhu", Reason: "must be a number"}
		}
		berat, err := parse.Berat(args[1])
		if err != nil {
			return &quality.ValidationError{Field: "berat", Reason: "must be a number"}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  (suhu %g..%g °C, berat %g..%g kg)\n",
			verdictStyle(quality.Evaluate(suhu, berat, std)), std.MinSuhu, std.MaxSuhu, std.MinBerat, std.MaxBerat)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new measurement",
	Long: `Submit a new measurement.

The verdict is derived from the server standards unless --kualitas overrides
it. --berat-image reads the weight from a photo of the scale display instead
of --berat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		master, err := apiClient.Master(ctx)
		if err != nil {
			return err
		}
		std, err := apiClient.Standards(ctx)
		if err != nil {
			return err
		}

		berat := submitBerat
		if submitBeratImage != "" {
			if berat, err = readImageNumber(cmd, submitBeratImage); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "berat read from image: %s\n", berat)
		}

		form := quality.NewForm(std)
		form.Group, form.Shift, form.Line = submitGroup, submitShift, submitLine
		form.SetSuhu(submitSuhu)
		form.SetBerat(berat)
		if submitKualitas != "" {
			v := model.Verdict(submitKualitas)
			if !v.Valid() {
				return &quality.ValidationError{Field: "kualitas", Reason: fmt.Sprintf("must be %q or %q", model.VerdictOK, model.VerdictNotOK)}
			}
			form.Override(v)
		}

		m, err := form.Measurement(master)
		if err != nil {
			return err
		}
		m.Date = submitDate

		if submitDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "would submit: line %s shift %d group %s suhu %d berat %g -> %s (%s)\n",
				m.Line, m.Shift, m.Group, m.Suhu, m.Berat, verdictStyle(m.Kualitas), form.Source())
			return nil
		}

		saved, err := apiClient.Submit(ctx, m)
		if err != nil {
			var rejected *client.RejectedError
			if errors.As(err, &rejected) {
				return fmt.Errorf("server refused the record: %s", rejected.Message)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved #%d on %s: %s\n", saved.ID, saved.Date, verdictStyle(saved.Kualitas))
		return nil
	},
}

func readImageNumber(cmd *cobra.Command, path string) (string, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ocr.New(cfg.OCR, timeout, logger).ReadNumber(cmd.Context(), image)
}

var ocrCmd = &cobra.Command{
	Use:   "ocr IMAGE",
	Short: "Read the first number from a photo of a scale display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		num, err := readImageNumber(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), num)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateLocal, "local", false, "use the standards from the config file instead of the server")

	f := submitCmd.Flags()
	f.StringVar(&submitGroup, "group", "", "group (see qcctl master)")
	f.StringVar(&submitShift, "shift", "", "shift")
	f.StringVar(&submitLine, "line", "", "production line")
	f.StringVar(&submitSuhu, "suhu", "", "temperature in °C")
	f.StringVar(&submitBerat, "berat", "", "weight in kg")
	f.StringVar(&submitBeratImage, "berat-image", "", "photo of the scale display to read berat from")
	f.StringVar(&submitKualitas, "kualitas", "", `override the verdict ("OK" or "NOT OK")`)
	f.StringVar(&submitDate, "date", "", "capture date (default: today, assigned by the server)")
	f.BoolVar(&submitDryRun, "dry-run", false, "validate and show the record without submitting")
	submitCmd.MarkFlagsMutuallyExclusive("berat", "berat-image")
}
