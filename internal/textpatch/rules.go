package textpatch

// Default rule sets for the Feishin build configuration.

// ElectronBuilder narrows asar unpacking to native binaries and leaves a hint
// next to the Linux targets.
func ElectronBuilder() []Rule {
	return []Rule{
		Literal("asar-unpack-native",
			"asarUnpack:\n    - resources/**\n",
			"asarUnpack:\n"+
				"    - resources/**/*.node\n"+
				"    - resources/**/*.dll\n"+
				"    - resources/**/*.so\n"+
				"    - resources/**/*.dylib\n"),
		Literal("appimage-hint",
			"- tar.xz\n",
			"- tar.xz\n    # consider dropping AppImage when size is a priority\n",
		).Guard("# consider dropping AppImage"),
	}
}

// ElectronVite disables sourcemaps and enables rollup tree shaking.
func ElectronVite() []Rule {
	return []Rule{
		disableSourcemaps(),
		Literal("rollup-treeshake",
			"minify: 'esbuild',\n",
			"minify: 'esbuild',\n"+
				"            rollupOptions: {\n"+
				"                treeshake: true,\n"+
				"            },\n",
		).Guard("rollupOptions:"),
	}
}

// RemoteVite disables sourcemaps for the remote control web build.
func RemoteVite() []Rule {
	return []Rule{disableSourcemaps()}
}

func disableSourcemaps() Rule {
	return Regexp("disable-sourcemap", `sourcemap: true`, "sourcemap: false")
}
