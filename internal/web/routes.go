package web

import (
	"tutorial/framework"
	"tutorial/framework/router"
	"tutorial/internal/web/appcore"
	"tutorial/internal/web/components"
)

const (
	tutorialIndexPattern = "/tutorial"
	tutorialPagePattern  = "/tutorial/[slug]"
	tutorialLivePattern  = "/tutorial/[slug]/live"
)

func Handlers() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.TutorialPageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.TutorialPageView]{
				Pattern:     tutorialIndexPattern,
				ParseParams: router.StaticParser(tutorialIndexPattern),
				Load:        appcore.LoadTutorialIndex,
				Render:      components.TutorialPage,
			},
		},
		framework.PageWithLiveRouteHandler[*appcore.Context, framework.SlugParams, appcore.TutorialPageView]{
			Page: framework.PageModule[*appcore.Context, framework.SlugParams, appcore.TutorialPageView]{
				Pattern:     tutorialPagePattern,
				ParseParams: router.SlugParser(tutorialPagePattern),
				Load:        appcore.LoadTutorialPage,
				Render:      components.TutorialPage,
				Layouts: []framework.LayoutRenderer[appcore.TutorialPageView]{
					components.Layout,
				},
			},
			Live: framework.LiveModule[*appcore.Context, framework.SlugParams, appcore.TutorialPageView]{
				Pattern:     tutorialLivePattern,
				ParseParams: router.SlugParser(tutorialLivePattern),
				Load:        appcore.LoadTutorialLive,
				Render:      components.TutorialPage,
				SelectorID:  components.ExerciseSelectorID,
			},
		},
	}
}
