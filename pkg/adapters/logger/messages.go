package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Pipeline level messages (info)
		"Starting pipeline":             "パイプラインを開始します",
		"Processed %d frames":           "%d フレームを処理しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Output saved to %s":            "出力を %s に保存しました",
		"Average throughput: %.1f fps":  "平均スループット: %.1f fps",

		// Processor
		"Segmenter ready":                     "セグメンタの準備が完了しました",
		"Segmenter initialization failed: %s": "セグメンタの初期化に失敗しました: %s",
		"Output buffer resized to %dx%d":      "出力バッファを %dx%d にリサイズしました",
		"Scale factor updated to %.2f":        "スケール係数を %.2f に更新しました",
		"Degenerate frame passed through":     "不正なフレームをそのまま通過させました",
		"Inference failed: %s":                "推論に失敗しました: %s",
		"Frame scaling failed: %s":            "フレームの縮小に失敗しました: %s",
		"Frame processing failed: %v":         "フレーム処理に失敗しました: %v",
		"Mask waiter already pending: %s":     "マスク待機がすでに登録されています: %s",
		"Matte stretched from %dx%d to %dx%d": "マットを %dx%d から %dx%d に拡大しました",

		// Source / sink
		"Reading %d frames from %s": "%s から %d フレームを読み込みます",
		"Source exhausted":          "ソースの終端に達しました",
		"Failed to write frame: %s": "フレームの書き込みに失敗しました: %s",

		// Errors
		"Failed to load config: %s": "設定の読み込みに失敗しました: %s",
		"Failed to open source: %s": "ソースのオープンに失敗しました: %s",
	})
}
