package cmd

import (
	"github.com/spigell/askme/internal/extract"
	"github.com/spigell/askme/internal/profile"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Enhance the profile with contacts and skills found in a resume PDF",
	Run: func(cmd *cobra.Command, _ []string) {
		runExtract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("pdf", "resume.pdf", "the resume PDF to read")
	extractCmd.Flags().StringP("out", "o", "resume_enhanced.yaml", "where to write the enhanced profile")
}

func runExtract(cmd *cobra.Command) {
	logger := newLogger()
	defer logger.Sync()

	pdfPath, _ := cmd.Flags().GetString("pdf")
	out, _ := cmd.Flags().GetString("out")

	text, err := extract.ReadPDF(pdfPath, logger)
	if err != nil {
		logger.Fatal("reading resume pdf", zap.Error(err))
	}

	findings := extract.Parse(text)
	if findings.Empty() {
		logger.Warn("nothing useful found in the pdf", zap.String("pdf", pdfPath))
	}

	logger.Info("extracted from pdf",
		zap.Int("emails", len(findings.Emails)),
		zap.Int("phones", len(findings.Phones)),
		zap.Int("skills", len(findings.Skills)),
	)

	p := extract.Enhance(profile.Load(viper.GetString("profile"), logger), findings)

	if err := profile.Save(p, out); err != nil {
		logger.Fatal("saving enhanced profile", zap.Error(err))
	}

	logger.Info("enhanced profile written", zap.String("filename", out))
}
