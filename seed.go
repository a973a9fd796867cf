package folio

// defaultPosts is the built-in sample content. The file store writes it
// when no canonical file exists; the SQLite store seeds it only into an
// empty posts table.
func defaultPosts() []BlogPost {
	return []BlogPost{
		{
			ID:      "1",
			Title:   "深入理解 React 18 并发特性",
			Excerpt: "探索 React 18 的并发渲染、Suspense 和自动批处理等新特性，以及如何在实际项目中应用这些功能。",
			Content: "# 深入理解 React 18 并发特性\n\nReact 18 引入了许多令人兴奋的新特性，其中最重要的是并发特性。这些特性让 React 应用能够更好地处理大量更新，提供更流畅的用户体验。\n\n## 什么是并发特性？\n\n并发特性是 React 18 的核心改进，它允许 React 中断、暂停、恢复或放弃工作。这意味着 React 可以在处理高优先级更新的同时，暂停低优先级的更新。\n\n## 主要特性\n\n### 1. 自动批处理 (Automatic Batching)\n\n在 React 18 之前，React 只在事件处理器中批处理更新。现在，React 会在所有情况下自动批处理更新。\n\n### 2. 并发渲染 (Concurrent Rendering)\n\n并发渲染允许 React 在渲染过程中中断工作，处理更高优先级的更新。\n\n### 3. Suspense 改进\n\nReact 18 改进了 Suspense 的行为，现在可以在服务端渲染中使用。\n\n## 总结\n\nReact 18 的并发特性为构建高性能应用提供了强大的工具。通过合理使用这些特性，我们可以创建更流畅、更响应的用户界面。",
			Date:     "2024-01-15",
			ReadTime: "8 分钟",
			Tags:     []string{"React", "JavaScript", "前端"},
			Featured: true,
			Slug:     "react-18-concurrent-features",
		},
		{
			ID:      "2",
			Title:   "Next.js 14 新特性详解",
			Excerpt: "全面解析 Next.js 14 的 App Router、Server Components 和性能优化等新功能。",
			Content: "# Next.js 14 新特性详解\n\nNext.js 14 带来了许多令人兴奋的新特性和改进，包括更好的性能、更简单的开发体验和更强大的功能。\n\n## 主要新特性\n\n### 1. App Router 稳定版\n\nApp Router 现在已经是稳定版本，提供了更直观的文件系统路由。\n\n### 2. Server Components\n\nServer Components 允许在服务器端渲染组件，减少客户端 JavaScript 包大小。\n\n### 3. 新的 Metadata API\n\n更简单和类型安全的元数据管理。\n\n## 总结\n\nNext.js 14 提供了许多强大的新特性，让构建现代 Web 应用变得更加简单和高效。",
			Date:     "2024-01-10",
			ReadTime: "6 分钟",
			Tags:     []string{"Next.js", "React", "全栈"},
			Featured: true,
			Slug:     "nextjs-14-new-features",
		},
	}
}

// defaultProjects is the built-in portfolio sample content.
func defaultProjects() []ProjectInput {
	return []ProjectInput{
		{
			Title:       "现代化电商平台",
			Description: "基于 Next.js 和 TypeScript 构建的全栈电商应用，集成支付、订单管理、库存系统等模块。",
			Tags:        []string{"Next.js", "TypeScript", "Tailwind CSS", "MongoDB", "Stripe"},
			GitHub:      "https://github.com/example/ecommerce",
			Demo:        "https://demo.example.com/ecommerce",
			Featured:    true,
		},
		{
			Title:       "实时聊天应用",
			Description: "使用 Socket.io 和 React 构建的实时聊天应用，支持群聊、私聊、文件分享等功能。",
			Tags:        []string{"React", "Socket.io", "Node.js", "Express", "MongoDB"},
			GitHub:      "https://github.com/example/chatapp",
			Demo:        "https://demo.example.com/chat",
			Featured:    true,
		},
		{
			Title:       "任务管理工具",
			Description: "类似 Trello 的任务管理工具，支持拖拽、标签、标记、筛选、统计等功能。",
			Tags:        []string{"React", "Redux", "Material-UI"},
			GitHub:      "https://github.com/example/tasks",
			Demo:        "https://demo.example.com/tasks",
			Featured:    false,
		},
	}
}

// Seed fills empty tables with the sample content. It is idempotent:
// a table with any rows at all is left untouched.
func (s *Store) Seed() error {
	var postCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&postCount); err != nil {
		return err
	}
	if postCount == 0 {
		for _, p := range defaultPosts() {
			_, err := s.db.Exec(`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Title, p.Excerpt, p.Content, p.Date, EstimateReadTime(p.Content), joinTags(p.Tags), boolInt(p.Featured), Slugify(p.Title))
			if err != nil {
				return err
			}
		}
	}

	var projectCount int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&projectCount); err != nil {
		return err
	}
	if projectCount == 0 {
		for _, in := range defaultProjects() {
			if _, err := s.CreateProject(in); err != nil {
				return err
			}
		}
	}
	return nil
}
