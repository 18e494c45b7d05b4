package workspace

// Framework is a build tool that inlines environment variables with a known
// prefix. Workspaces that depend on one get those prefixes declared for free.
type Framework struct {
	Slug         string
	Dependencies []string // any of these marks the framework as used
	EnvWildcards []string
}

// Frameworks is checked in order; every matching framework contributes.
var Frameworks = []Framework{
	{Slug: "nextjs", Dependencies: []string{"next"}, EnvWildcards: []string{"NEXT_PUBLIC_*"}},
	{Slug: "vite", Dependencies: []string{"vite"}, EnvWildcards: []string{"VITE_*"}},
	{Slug: "create-react-app", Dependencies: []string{"react-scripts", "react-dev-utils"}, EnvWildcards: []string{"REACT_APP_*"}},
	{Slug: "gatsby", Dependencies: []string{"gatsby"}, EnvWildcards: []string{"GATSBY_*"}},
	{Slug: "nuxtjs", Dependencies: []string{"nuxt", "nuxt-edge", "nuxt3"}, EnvWildcards: []string{"NUXT_ENV_*"}},
	{Slug: "astro", Dependencies: []string{"astro"}, EnvWildcards: []string{"PUBLIC_*"}},
	{Slug: "sveltekit", Dependencies: []string{"@sveltejs/kit"}, EnvWildcards: []string{"VITE_*", "PUBLIC_*"}},
	{Slug: "vue", Dependencies: []string{"@vue/cli-service"}, EnvWildcards: []string{"VUE_APP_*"}},
	{Slug: "expo", Dependencies: []string{"expo"}, EnvWildcards: []string{"EXPO_PUBLIC_*"}},
	{Slug: "redwoodjs", Dependencies: []string{"@redwoodjs/core"}, EnvWildcards: []string{"REDWOOD_ENV_*"}},
	{Slug: "sanity", Dependencies: []string{"@sanity/cli"}, EnvWildcards: []string{"SANITY_STUDIO_*"}},
	{Slug: "solidstart", Dependencies: []string{"solid-start"}, EnvWildcards: []string{"VITE_*"}},
}

// inferFrameworkEnv returns the env wildcards for the frameworks a package
// depends on.
func inferFrameworkEnv(pkg *packageJSON) []string {
	if pkg == nil {
		return nil
	}
	var out []string
	for _, fw := range Frameworks {
		for _, dep := range fw.Dependencies {
			if pkg.hasDependency(dep) {
				out = append(out, fw.EnvWildcards...)
				break
			}
		}
	}
	return out
}
